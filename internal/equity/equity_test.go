package equity

import (
	"testing"

	"lv-perpquery/internal/model"
	"lv-perpquery/internal/types"

	"github.com/shopspring/decimal"
)

func fixtures() (map[string]model.Market, map[uint32]model.LiquidityTier) {
	tier := model.LiquidityTier{
		ID:                     1,
		InitialMarginPpm:       50_000,
		MaintenanceFractionPpm: 600_000,
		BasePositionNotional:   decimal.NewFromInt(1_000_000),
	}
	markets := map[string]model.Market{
		"0": {ID: "0", Pair: "BTC-USD", OraclePrice: decimal.NewFromInt(50_000), LiquidityTierID: 1},
	}
	return markets, map[uint32]model.LiquidityTier{1: tier}
}

func usdcShort(size string) map[string]model.AssetPosition {
	return map[string]model.AssetPosition{
		UsdcSymbol: {AssetID: "0", Symbol: UsdcSymbol, Side: types.PositionSideShort, Size: decimal.RequireFromString(size)},
	}
}

func TestCompute(t *testing.T) {
	markets, tiers := fixtures()
	noDrift := model.FundingIndex{"0": decimal.NewFromInt(100)}
	positions := []model.PerpetualPosition{{
		PerpetualID: "0",
		Side:        types.PositionSideLong,
		Status:      types.PositionStatusOpen,
		Size:        decimal.NewFromInt(1),
	}}

	summary, err := Compute(positions, usdcShort("1000"), markets, tiers, noDrift, noDrift)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !summary.Equity.Equal(decimal.NewFromInt(49_000)) {
		t.Errorf("equity = %s, want 49000", summary.Equity)
	}
	if !summary.FreeCollateral.Equal(decimal.NewFromInt(46_500)) {
		t.Errorf("free collateral = %s, want 46500", summary.FreeCollateral)
	}
	if !summary.UnsettledFunding.IsZero() {
		t.Errorf("unsettled funding = %s, want 0", summary.UnsettledFunding)
	}

	t.Run("closed positions add no initial risk", func(t *testing.T) {
		closed := positions[0]
		closed.Status = types.PositionStatusClosed
		summary, err := Compute([]model.PerpetualPosition{closed}, usdcShort("1000"), markets, tiers, noDrift, noDrift)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if !summary.Equity.Equal(summary.FreeCollateral) {
			t.Errorf("free collateral = %s, want equity %s", summary.FreeCollateral, summary.Equity)
		}
	})

	t.Run("missing market surfaces not found", func(t *testing.T) {
		bad := positions[0]
		bad.PerpetualID = "99"
		if _, err := Compute([]model.PerpetualPosition{bad}, usdcShort("1000"), markets, tiers, noDrift, noDrift); err == nil {
			t.Fatal("Compute succeeded with unknown market")
		}
	})
}

func TestAdjustUsdcPosition(t *testing.T) {
	t.Run("zero adjusted balance is omitted", func(t *testing.T) {
		adjusted, size := AdjustUsdcPosition(usdcShort("25"), decimal.NewFromInt(25))
		if !size.IsZero() {
			t.Errorf("adjusted size = %s, want 0", size)
		}
		if _, ok := adjusted[UsdcSymbol]; ok {
			t.Error("zero USDC position should be omitted")
		}
	})

	t.Run("side follows sign of adjusted size", func(t *testing.T) {
		adjusted, size := AdjustUsdcPosition(usdcShort("1000"), decimal.NewFromInt(1500))
		if !size.Equal(decimal.NewFromInt(500)) {
			t.Errorf("adjusted size = %s, want 500", size)
		}
		got := adjusted[UsdcSymbol]
		if got.Side != types.PositionSideLong {
			t.Errorf("side = %s, want LONG", got.Side)
		}
		if !got.Size.Equal(decimal.NewFromInt(500)) {
			t.Errorf("size = %s, want 500", got.Size)
		}
	})

	t.Run("funding alone creates the position", func(t *testing.T) {
		adjusted, size := AdjustUsdcPosition(map[string]model.AssetPosition{}, decimal.NewFromInt(-30))
		if !size.Equal(decimal.NewFromInt(-30)) {
			t.Errorf("adjusted size = %s, want -30", size)
		}
		got := adjusted[UsdcSymbol]
		if got.Side != types.PositionSideShort || !got.Size.Equal(decimal.NewFromInt(30)) {
			t.Errorf("position = %+v, want SHORT 30", got)
		}
	})

	t.Run("input map is not mutated", func(t *testing.T) {
		in := usdcShort("1000")
		AdjustUsdcPosition(in, decimal.NewFromInt(1500))
		if got := in[UsdcSymbol]; got.Side != types.PositionSideShort || !got.Size.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("input mutated: %+v", got)
		}
	})

	t.Run("other assets are carried over", func(t *testing.T) {
		in := usdcShort("10")
		in["WETH"] = model.AssetPosition{AssetID: "1", Symbol: "WETH", Side: types.PositionSideLong, Size: decimal.NewFromInt(2)}
		adjusted, _ := AdjustUsdcPosition(in, decimal.Zero)
		if _, ok := adjusted["WETH"]; !ok {
			t.Error("non-USDC asset dropped")
		}
	})
}
