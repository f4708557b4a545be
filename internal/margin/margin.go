package margin

import (
	"math/big"

	"lv-perpquery/internal/model"

	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)

	// convergence threshold for the square-root iteration
	sqrtEpsilon = decimal.New(1, -18)
)

func ppmToFraction(ppm uint32) decimal.Decimal {
	return decimal.New(int64(ppm), -6)
}

// InitialMarginFraction returns the tier's base initial margin fraction.
func InitialMarginFraction(tier model.LiquidityTier) decimal.Decimal {
	return ppmToFraction(tier.InitialMarginPpm)
}

// MaintenanceMarginFraction returns the tier's base maintenance margin
// fraction, defined as the initial fraction scaled by the maintenance
// fraction ppm.
func MaintenanceMarginFraction(tier model.LiquidityTier) decimal.Decimal {
	return ppmToFraction(tier.InitialMarginPpm).Mul(ppmToFraction(tier.MaintenanceFractionPpm))
}

// AdjustedMarginFraction returns the margin fraction to apply to a position
// of the given notional. At or below the tier's base notional the base
// fraction applies unchanged; above it the fraction scales with
// sqrt(notional / base), capped at 1.
func AdjustedMarginFraction(tier model.LiquidityTier, positionNotional decimal.Decimal, initial bool) decimal.Decimal {
	margin := InitialMarginFraction(tier)
	if !initial {
		margin = MaintenanceMarginFraction(tier)
	}
	if tier.BasePositionNotional.Sign() <= 0 || positionNotional.LessThanOrEqual(tier.BasePositionNotional) {
		return margin
	}
	adjusted := sqrtDecimal(positionNotional.Div(tier.BasePositionNotional)).Mul(margin)
	if adjusted.GreaterThan(one) {
		return one
	}
	return adjusted
}

// sqrtDecimal computes the square root by Newton iteration, seeded with the
// integer square root so large notional ratios converge in a few steps.
func sqrtDecimal(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	guess := decimal.NewFromBigInt(new(big.Int).Sqrt(d.BigInt()), 0)
	if guess.Sign() == 0 {
		guess = one
	}
	for i := 0; i < 32; i++ {
		next := guess.Add(d.Div(guess)).Div(two)
		if next.Sub(guess).Abs().LessThan(sqrtEpsilon) {
			return next
		}
		guess = next
	}
	return guess
}
