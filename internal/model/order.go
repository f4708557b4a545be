package model

import (
	"time"

	"lv-perpquery/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PersistedOrder is the durable-store view of an order. It is authoritative
// for lifecycle and metadata fields; size, price and expiry may lag the
// matching engine.
type PersistedOrder struct {
	ID               uuid.UUID         `json:"id"`
	SubaccountID     string            `json:"subaccount_id"`
	ClientID         string            `json:"client_id"`
	ClobPairID       string            `json:"clob_pair_id"`
	Side             types.OrderSide   `json:"side"`
	Type             types.OrderType   `json:"type"`
	Status           types.OrderStatus `json:"status"`
	Size             decimal.Decimal   `json:"size"`
	TotalFilled      decimal.Decimal   `json:"total_filled"`
	Price            decimal.Decimal   `json:"price"`
	TimeInForce      types.TimeInForce `json:"time_in_force"`
	PostOnly         bool              `json:"post_only"`
	ReduceOnly       bool              `json:"reduce_only"`
	GoodTilBlock     *uint32           `json:"good_til_block"`
	GoodTilBlockTime *time.Time        `json:"good_til_block_time"`
	CreatedAtHeight  uint64            `json:"created_at_height"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// LiveOrder is the cache-resident view of an order, mirroring matching
// engine state not yet flushed to the durable store. Only limit orders are
// mirrored.
type LiveOrder struct {
	ID               uuid.UUID         `json:"id"`
	SubaccountID     string            `json:"subaccount_id"`
	ClientID         string            `json:"client_id"`
	ClobPairID       string            `json:"clob_pair_id"`
	Side             types.OrderSide   `json:"side"`
	Type             types.OrderType   `json:"type"`
	Size             decimal.Decimal   `json:"size"`
	Price            decimal.Decimal   `json:"price"`
	TimeInForce      types.TimeInForce `json:"time_in_force"`
	PostOnly         bool              `json:"post_only"`
	ReduceOnly       bool              `json:"reduce_only"`
	GoodTilBlock     *uint32           `json:"good_til_block"`
	GoodTilBlockTime *time.Time        `json:"good_til_block_time"`
}

// OrderResult is the reconciled view returned to callers. Shaped like the
// persisted view; volatile fields may have been overridden from the cache.
type OrderResult struct {
	ID               uuid.UUID         `json:"id"`
	SubaccountID     string            `json:"subaccount_id"`
	ClientID         string            `json:"client_id"`
	ClobPairID       string            `json:"clob_pair_id"`
	Side             types.OrderSide   `json:"side"`
	Type             types.OrderType   `json:"type"`
	Status           types.OrderStatus `json:"status"`
	Size             decimal.Decimal   `json:"size"`
	TotalFilled      decimal.Decimal   `json:"total_filled"`
	Price            decimal.Decimal   `json:"price"`
	TimeInForce      types.TimeInForce `json:"time_in_force"`
	PostOnly         bool              `json:"post_only"`
	ReduceOnly       bool              `json:"reduce_only"`
	GoodTilBlock     *uint32           `json:"good_til_block"`
	GoodTilBlockTime *time.Time        `json:"good_til_block_time"`
	CreatedAtHeight  uint64            `json:"created_at_height"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
