package model

import (
	"time"

	"lv-perpquery/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subaccount is one isolated margin account belonging to an address.
type Subaccount struct {
	ID               string    `json:"id"`
	Address          string    `json:"address"`
	SubaccountNumber int       `json:"subaccount_number"`
	UpdatedAt        time.Time `json:"updated_at"`
	UpdatedAtHeight  uint64    `json:"updated_at_height"`
}

// LiquidityTier is a risk-parameter bucket shared across perpetual markets.
// Margin fields are parts-per-million fixed-point fractions.
type LiquidityTier struct {
	ID                     uint32          `json:"id"`
	Name                   string          `json:"name"`
	InitialMarginPpm       uint32          `json:"initial_margin_ppm"`
	MaintenanceFractionPpm uint32          `json:"maintenance_fraction_ppm"`
	BasePositionNotional   decimal.Decimal `json:"base_position_notional"`
}

type Market struct {
	ID              string          `json:"id"`
	Pair            string          `json:"pair"`
	OraclePrice     decimal.Decimal `json:"oracle_price"`
	LiquidityTierID uint32          `json:"liquidity_tier_id"`
	ClobPairID      string          `json:"clob_pair_id"`
}

type PerpetualPosition struct {
	PerpetualID      string               `json:"perpetual_id"`
	SubaccountID     string               `json:"subaccount_id"`
	Side             types.PositionSide   `json:"side"`
	Status           types.PositionStatus `json:"status"`
	Size             decimal.Decimal      `json:"size"`
	MaxSize          decimal.Decimal      `json:"max_size"`
	EntryPrice       decimal.Decimal      `json:"entry_price"`
	ExitPrice        *decimal.Decimal     `json:"exit_price"`
	SumOpen          decimal.Decimal      `json:"sum_open"`
	SumClose         decimal.Decimal      `json:"sum_close"`
	SettledFunding   decimal.Decimal      `json:"settled_funding"`
	UnsettledFunding decimal.Decimal      `json:"unsettled_funding"`
	TotalRealizedPnl decimal.Decimal      `json:"total_realized_pnl"`
	LastEventID      uuid.UUID            `json:"last_event_id"`
	CreatedAt        time.Time            `json:"created_at"`
	CreatedAtHeight  uint64               `json:"created_at_height"`
}

// SignedSize returns the position size with its sign following the side.
// Size is stored as a magnitude; shorts are negative.
func (p PerpetualPosition) SignedSize() decimal.Decimal {
	if p.Side == types.PositionSideShort {
		return p.Size.Neg()
	}
	return p.Size
}

type AssetPosition struct {
	AssetID string             `json:"asset_id"`
	Symbol  string             `json:"symbol"`
	Side    types.PositionSide `json:"side"`
	Size    decimal.Decimal    `json:"size"`
}

// SignedSize returns the asset balance with its sign following the side.
func (a AssetPosition) SignedSize() decimal.Decimal {
	if a.Side == types.PositionSideShort {
		return a.Size.Neg()
	}
	return a.Size
}

// FundingIndex maps perpetual id to the cumulative funding index value at
// one block height. A missing perpetual reads as zero.
type FundingIndex map[string]decimal.Decimal

// BlockEvent locates one indexed event inside a block. Events are totally
// ordered by (BlockHeight, TransactionIndex, EventIndex).
type BlockEvent struct {
	ID               uuid.UUID `json:"id"`
	BlockHeight      uint64    `json:"block_height"`
	TransactionIndex int32     `json:"transaction_index"`
	EventIndex       int32     `json:"event_index"`
}

// Before reports whether e was indexed before other.
func (e BlockEvent) Before(other BlockEvent) bool {
	if e.BlockHeight != other.BlockHeight {
		return e.BlockHeight < other.BlockHeight
	}
	if e.TransactionIndex != other.TransactionIndex {
		return e.TransactionIndex < other.TransactionIndex
	}
	return e.EventIndex < other.EventIndex
}

type PnlTick struct {
	SubaccountID string          `json:"subaccount_id"`
	BlockHeight  uint64          `json:"block_height"`
	BlockTime    time.Time       `json:"block_time"`
	Equity       decimal.Decimal `json:"equity"`
	TotalPnl     decimal.Decimal `json:"total_pnl"`
	NetTransfers decimal.Decimal `json:"net_transfers"`
	CreatedAt    time.Time       `json:"created_at"`
}
