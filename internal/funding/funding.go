package funding

import (
	"lv-perpquery/internal/model"
	"lv-perpquery/internal/types"

	"github.com/shopspring/decimal"
)

// Unsettled returns the funding accrued on a position since its subaccount
// was last settled, as the delta between the latest funding index and the
// index at the last settlement, times the signed size. Closed positions
// carry no open exposure and always return zero.
//
// A perpetual missing from a snapshot reads as index zero; the store
// backfills indexes from height zero, so a missing entry means the market
// has never had a funding event.
func Unsettled(pos model.PerpetualPosition, lastApplied, latest model.FundingIndex) decimal.Decimal {
	if pos.Status != types.PositionStatusOpen {
		return decimal.Zero
	}
	delta := latest[pos.PerpetualID].Sub(lastApplied[pos.PerpetualID])
	return delta.Mul(pos.SignedSize())
}

// TotalUnsettled sums unsettled funding over a position set. Plain decimal
// addition, so the result does not depend on input order.
func TotalUnsettled(positions []model.PerpetualPosition, lastApplied, latest model.FundingIndex) decimal.Decimal {
	total := decimal.Zero
	for _, pos := range positions {
		total = total.Add(Unsettled(pos, lastApplied, latest))
	}
	return total
}
