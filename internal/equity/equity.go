package equity

import (
	"lv-perpquery/internal/funding"
	"lv-perpquery/internal/margin"
	"lv-perpquery/internal/model"
	"lv-perpquery/internal/types"

	"github.com/shopspring/decimal"
)

const UsdcSymbol = "USDC"

// Summary is a subaccount's derived account state. AssetPositions is a
// fresh map with the USDC entry adjusted for unsettled funding.
type Summary struct {
	Equity           decimal.Decimal
	FreeCollateral   decimal.Decimal
	UnsettledFunding decimal.Decimal
	AssetPositions   map[string]model.AssetPosition
}

// AdjustUsdcPosition returns a copy of the asset-position map with the USDC
// entry rebuilt from the stored balance plus unsettled funding, and the
// adjusted signed size. A zero adjusted balance is omitted from the map;
// otherwise the side follows the sign and the size is the magnitude.
//
// The input map is never mutated.
func AdjustUsdcPosition(assetPositions map[string]model.AssetPosition, unsettledFunding decimal.Decimal) (map[string]model.AssetPosition, decimal.Decimal) {
	adjusted := make(map[string]model.AssetPosition, len(assetPositions))
	for symbol, pos := range assetPositions {
		if symbol != UsdcSymbol {
			adjusted[symbol] = pos
		}
	}
	stored := decimal.Zero
	usdc, hasUsdc := assetPositions[UsdcSymbol]
	if hasUsdc {
		stored = usdc.SignedSize()
	}
	size := stored.Add(unsettledFunding)
	if size.IsZero() {
		return adjusted, size
	}
	side := types.PositionSideLong
	if size.Sign() < 0 {
		side = types.PositionSideShort
	}
	adjusted[UsdcSymbol] = model.AssetPosition{AssetID: usdc.AssetID, Symbol: UsdcSymbol, Side: side, Size: size.Abs()}
	return adjusted, size
}

// Compute derives equity and free collateral for one subaccount snapshot.
// Equity sums every position's signed notional plus the funding-adjusted
// USDC balance; free collateral subtracts the initial margin of open
// positions. Inputs are read-only; the returned summary owns its maps.
func Compute(
	positions []model.PerpetualPosition,
	assetPositions map[string]model.AssetPosition,
	markets map[string]model.Market,
	tiers map[uint32]model.LiquidityTier,
	lastApplied, latest model.FundingIndex,
) (Summary, error) {
	unsettled := funding.TotalUnsettled(positions, lastApplied, latest)
	adjustedAssets, adjustedUsdc := AdjustUsdcPosition(assetPositions, unsettled)

	equity := adjustedUsdc
	initialRisk := decimal.Zero
	for _, pos := range positions {
		notional, err := margin.NotionalForPosition(pos, markets)
		if err != nil {
			return Summary{}, err
		}
		equity = equity.Add(notional)
		if pos.Status != types.PositionStatusOpen {
			continue
		}
		risk, err := margin.RiskForPosition(pos, markets, tiers)
		if err != nil {
			return Summary{}, err
		}
		initialRisk = initialRisk.Add(risk.Initial)
	}

	return Summary{
		Equity:           equity,
		FreeCollateral:   equity.Sub(initialRisk),
		UnsettledFunding: unsettled,
		AssetPositions:   adjustedAssets,
	}, nil
}
