package margin

import (
	"fmt"

	"lv-perpquery/internal/model"

	"github.com/shopspring/decimal"
)

// Risk is the collateral a position requires.
type Risk struct {
	Initial     decimal.Decimal
	Maintenance decimal.Decimal
}

// SignedNotional returns size * oraclePrice. The sign follows the signed
// size.
func SignedNotional(signedSize, oraclePrice decimal.Decimal) decimal.Decimal {
	return signedSize.Mul(oraclePrice)
}

// PositionRisk computes the initial and maintenance margin required for a
// position of the given signed size at the oracle price.
func PositionRisk(signedSize, oraclePrice decimal.Decimal, tier model.LiquidityTier) Risk {
	notional := SignedNotional(signedSize, oraclePrice).Abs()
	return Risk{
		Initial:     notional.Mul(AdjustedMarginFraction(tier, notional, true)),
		Maintenance: notional.Mul(AdjustedMarginFraction(tier, notional, false)),
	}
}

// RiskForPosition resolves the position's market and liquidity tier and
// computes its risk. A missing market or tier is a NotFoundError: reference
// data must exist for every open position.
func RiskForPosition(pos model.PerpetualPosition, markets map[string]model.Market, tiers map[uint32]model.LiquidityTier) (Risk, error) {
	market, ok := markets[pos.PerpetualID]
	if !ok {
		return Risk{}, &model.NotFoundError{Entity: "market", ID: pos.PerpetualID}
	}
	tier, ok := tiers[market.LiquidityTierID]
	if !ok {
		return Risk{}, &model.NotFoundError{Entity: "liquidity tier", ID: fmt.Sprintf("%d", market.LiquidityTierID)}
	}
	return PositionRisk(pos.SignedSize(), market.OraclePrice, tier), nil
}

// NotionalForPosition resolves the position's market and returns the signed
// notional at the oracle price.
func NotionalForPosition(pos model.PerpetualPosition, markets map[string]model.Market) (decimal.Decimal, error) {
	market, ok := markets[pos.PerpetualID]
	if !ok {
		return decimal.Decimal{}, &model.NotFoundError{Entity: "market", ID: pos.PerpetualID}
	}
	return SignedNotional(pos.SignedSize(), market.OraclePrice), nil
}
