package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"lv-perpquery/internal/model"
	"lv-perpquery/internal/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store runs read-only queries against the indexer schema. It never writes;
// the indexer's ingestion pipeline owns all mutations.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetSubaccount(ctx context.Context, address string, subaccountNumber int) (model.Subaccount, error) {
	var sub model.Subaccount
	err := s.pool.QueryRow(ctx, "select id, address, subaccount_number, updated_at, updated_at_height from subaccounts where address = $1 and subaccount_number = $2", address, subaccountNumber).Scan(&sub.ID, &sub.Address, &sub.SubaccountNumber, &sub.UpdatedAt, &sub.UpdatedAtHeight)
	if errors.Is(err, pgx.ErrNoRows) {
		return sub, &model.NotFoundError{Entity: "subaccount", ID: fmt.Sprintf("%s/%d", address, subaccountNumber)}
	}
	return sub, err
}

func (s *Store) ListPerpetualPositions(ctx context.Context, subaccountID string, status *types.PositionStatus) ([]model.PerpetualPosition, error) {
	var rows pgx.Rows
	var err error
	if status == nil {
		rows, err = s.pool.Query(ctx, "select perpetual_id, subaccount_id, side, status, size, max_size, entry_price, exit_price, sum_open, sum_close, settled_funding, total_realized_pnl, last_event_id, created_at, created_at_height from perpetual_positions where subaccount_id = $1 order by created_at_height desc", subaccountID)
	} else {
		rows, err = s.pool.Query(ctx, "select perpetual_id, subaccount_id, side, status, size, max_size, entry_price, exit_price, sum_open, sum_close, settled_funding, total_realized_pnl, last_event_id, created_at, created_at_height from perpetual_positions where subaccount_id = $1 and status = $2 order by created_at_height desc", subaccountID, string(*status))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PerpetualPosition
	for rows.Next() {
		var p model.PerpetualPosition
		var side, posStatus string
		if err := rows.Scan(&p.PerpetualID, &p.SubaccountID, &side, &posStatus, &p.Size, &p.MaxSize, &p.EntryPrice, &p.ExitPrice, &p.SumOpen, &p.SumClose, &p.SettledFunding, &p.TotalRealizedPnl, &p.LastEventID, &p.CreatedAt, &p.CreatedAtHeight); err != nil {
			return nil, err
		}
		p.Side = types.PositionSide(side)
		p.Status = types.PositionStatus(posStatus)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListAssetPositions(ctx context.Context, subaccountID string) (map[string]model.AssetPosition, error) {
	rows, err := s.pool.Query(ctx, "select ap.asset_id, a.symbol, ap.side, ap.size from asset_positions ap join assets a on a.id = ap.asset_id where ap.subaccount_id = $1", subaccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]model.AssetPosition)
	for rows.Next() {
		var p model.AssetPosition
		var side string
		if err := rows.Scan(&p.AssetID, &p.Symbol, &side, &p.Size); err != nil {
			return nil, err
		}
		p.Side = types.PositionSide(side)
		out[p.Symbol] = p
	}
	return out, rows.Err()
}

// ListOrders applies the same filters the reconciler applies to the live
// source, so both inputs to the merge are narrowed consistently.
func (s *Store) ListOrders(ctx context.Context, subaccountID string, clobPairID *string, side *types.OrderSide, goodTilBlockBeforeOrAt *uint32, goodTilBlockTimeBeforeOrAt *time.Time, limit int) ([]model.PersistedOrder, error) {
	query := "select id, subaccount_id, client_id, clob_pair_id, side, type, status, size, total_filled, price, time_in_force, post_only, reduce_only, good_til_block, good_til_block_time, created_at_height, updated_at from orders where subaccount_id = $1"
	args := []any{subaccountID}
	if clobPairID != nil {
		args = append(args, *clobPairID)
		query += " and clob_pair_id = $" + strconv.Itoa(len(args))
	}
	if side != nil {
		args = append(args, string(*side))
		query += " and side = $" + strconv.Itoa(len(args))
	}
	if goodTilBlockBeforeOrAt != nil {
		args = append(args, *goodTilBlockBeforeOrAt)
		query += " and good_til_block is not null and good_til_block <= $" + strconv.Itoa(len(args))
	}
	if goodTilBlockTimeBeforeOrAt != nil {
		args = append(args, *goodTilBlockTimeBeforeOrAt)
		query += " and good_til_block_time is not null and good_til_block_time <= $" + strconv.Itoa(len(args))
	}
	query += " order by updated_at desc, id asc"
	if limit > 0 {
		args = append(args, limit)
		query += " limit $" + strconv.Itoa(len(args))
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PersistedOrder
	for rows.Next() {
		var o model.PersistedOrder
		var orderSide, typ, status, tif string
		if err := rows.Scan(&o.ID, &o.SubaccountID, &o.ClientID, &o.ClobPairID, &orderSide, &typ, &status, &o.Size, &o.TotalFilled, &o.Price, &tif, &o.PostOnly, &o.ReduceOnly, &o.GoodTilBlock, &o.GoodTilBlockTime, &o.CreatedAtHeight, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Side = types.OrderSide(orderSide)
		o.Type = types.OrderType(typ)
		o.Status = types.OrderStatus(status)
		o.TimeInForce = types.TimeInForce(tif)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) ListPnlTicks(ctx context.Context, subaccountIDs []string) ([]model.PnlTick, error) {
	rows, err := s.pool.Query(ctx, "select subaccount_id, block_height, block_time, equity, total_pnl, net_transfers, created_at from pnl_ticks where subaccount_id = any($1) order by block_height asc", subaccountIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PnlTick
	for rows.Next() {
		var t model.PnlTick
		if err := rows.Scan(&t.SubaccountID, &t.BlockHeight, &t.BlockTime, &t.Equity, &t.TotalPnl, &t.NetTransfers, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ListLiquidityTiers(ctx context.Context) (map[uint32]model.LiquidityTier, error) {
	rows, err := s.pool.Query(ctx, "select id, name, initial_margin_ppm, maintenance_fraction_ppm, base_position_notional from liquidity_tiers")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint32]model.LiquidityTier)
	for rows.Next() {
		var t model.LiquidityTier
		if err := rows.Scan(&t.ID, &t.Name, &t.InitialMarginPpm, &t.MaintenanceFractionPpm, &t.BasePositionNotional); err != nil {
			return nil, err
		}
		out[t.ID] = t
	}
	return out, rows.Err()
}

func (s *Store) ListMarkets(ctx context.Context) (map[string]model.Market, error) {
	rows, err := s.pool.Query(ctx, "select id, pair, oracle_price, liquidity_tier_id, clob_pair_id from markets")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]model.Market)
	for rows.Next() {
		var m model.Market
		if err := rows.Scan(&m.ID, &m.Pair, &m.OraclePrice, &m.LiquidityTierID, &m.ClobPairID); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}

// FundingIndexAt returns each perpetual's most recent funding index at or
// before the given block height. Perpetuals with no funding event by then
// are absent from the map and read as zero downstream.
func (s *Store) FundingIndexAt(ctx context.Context, blockHeight uint64) (model.FundingIndex, error) {
	rows, err := s.pool.Query(ctx, "select distinct on (perpetual_id) perpetual_id, funding_index from funding_index_updates where block_height <= $1 order by perpetual_id, block_height desc", blockHeight)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(model.FundingIndex)
	for rows.Next() {
		var perpetualID string
		var index decimal.Decimal
		if err := rows.Scan(&perpetualID, &index); err != nil {
			return nil, err
		}
		out[perpetualID] = index
	}
	return out, rows.Err()
}

func (s *Store) GetBlockEvents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.BlockEvent, error) {
	rows, err := s.pool.Query(ctx, "select id, block_height, transaction_index, event_index from tendermint_events where id = any($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uuid.UUID]model.BlockEvent, len(ids))
	for rows.Next() {
		var e model.BlockEvent
		if err := rows.Scan(&e.ID, &e.BlockHeight, &e.TransactionIndex, &e.EventIndex); err != nil {
			return nil, err
		}
		out[e.ID] = e
	}
	return out, rows.Err()
}

func (s *Store) LatestBlock(ctx context.Context) (uint64, time.Time, error) {
	var height uint64
	var blockTime time.Time
	err := s.pool.QueryRow(ctx, "select block_height, block_time from blocks order by block_height desc limit 1").Scan(&height, &blockTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, time.Time{}, &model.NotFoundError{Entity: "block", ID: "latest"}
	}
	return height, blockTime, err
}
