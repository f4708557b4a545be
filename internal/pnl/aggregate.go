package pnl

import (
	"sort"
	"time"

	"lv-perpquery/internal/model"

	"github.com/shopspring/decimal"
)

// Aggregate folds per-subaccount pnl ticks into one portfolio-level series.
// Ticks sharing a block height are summed field by field; block time and
// created-at are taken from a representative tick, since the indexer writes
// all subaccounts' ticks for a height from the same block. Output is
// ascending by block height.
func Aggregate(ticks []model.PnlTick) []model.PnlTick {
	byHeight := make(map[uint64]model.PnlTick, len(ticks))
	for _, t := range ticks {
		agg, ok := byHeight[t.BlockHeight]
		if !ok {
			agg = t
			agg.SubaccountID = ""
			byHeight[t.BlockHeight] = agg
			continue
		}
		agg.Equity = agg.Equity.Add(t.Equity)
		agg.TotalPnl = agg.TotalPnl.Add(t.TotalPnl)
		agg.NetTransfers = agg.NetTransfers.Add(t.NetTransfers)
		byHeight[t.BlockHeight] = agg
	}

	out := make([]model.PnlTick, 0, len(byHeight))
	for _, t := range byHeight {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockHeight < out[j].BlockHeight })
	return out
}

// AppendCurrent appends a synthetic tick carrying the portfolio's current
// equity at the latest known block, so the series reflects unrealized state
// the indexer has not ticked yet. With no real ticks there is nothing to
// extrapolate from and the series is returned unchanged.
func AppendCurrent(ticks []model.PnlTick, currentEquity decimal.Decimal, blockHeight uint64, blockTime time.Time) []model.PnlTick {
	if len(ticks) == 0 {
		return ticks
	}
	last := ticks[len(ticks)-1]
	current := model.PnlTick{
		BlockHeight:  blockHeight,
		BlockTime:    blockTime,
		Equity:       currentEquity,
		TotalPnl:     currentEquity.Sub(last.NetTransfers),
		NetTransfers: last.NetTransfers,
		CreatedAt:    blockTime,
	}
	out := make([]model.PnlTick, 0, len(ticks)+1)
	out = append(out, ticks...)
	return append(out, current)
}
