package margin

import (
	"errors"
	"testing"

	"lv-perpquery/internal/model"
	"lv-perpquery/internal/types"

	"github.com/shopspring/decimal"
)

func defaultTier() model.LiquidityTier {
	return model.LiquidityTier{
		ID:                     1,
		Name:                   "Large-Cap",
		InitialMarginPpm:       50_000,  // 5%
		MaintenanceFractionPpm: 600_000, // 60% of initial
		BasePositionNotional:   decimal.NewFromInt(1_000_000),
	}
}

func TestAdjustedMarginFraction(t *testing.T) {
	tier := defaultTier()

	t.Run("at or below base notional is unadjusted", func(t *testing.T) {
		for _, notional := range []int64{0, 1, 500_000, 1_000_000} {
			got := AdjustedMarginFraction(tier, decimal.NewFromInt(notional), true)
			if !got.Equal(decimal.RequireFromString("0.05")) {
				t.Errorf("AdjustedMarginFraction(%d, initial) = %s, want 0.05", notional, got)
			}
		}
	})

	t.Run("maintenance fraction scales from initial", func(t *testing.T) {
		got := AdjustedMarginFraction(tier, decimal.NewFromInt(100), false)
		if !got.Equal(decimal.RequireFromString("0.03")) {
			t.Errorf("maintenance fraction = %s, want 0.03", got)
		}
	})

	t.Run("four times base doubles the fraction", func(t *testing.T) {
		got := AdjustedMarginFraction(tier, decimal.NewFromInt(4_000_000), true)
		if !got.Equal(decimal.RequireFromString("0.1")) {
			t.Errorf("adjusted initial fraction = %s, want 0.1", got)
		}
		gotMaint := AdjustedMarginFraction(tier, decimal.NewFromInt(4_000_000), false)
		if !gotMaint.Equal(decimal.RequireFromString("0.06")) {
			t.Errorf("adjusted maintenance fraction = %s, want 0.06", gotMaint)
		}
	})

	t.Run("capped at one", func(t *testing.T) {
		steep := model.LiquidityTier{
			InitialMarginPpm:       800_000, // 80%
			MaintenanceFractionPpm: 1_000_000,
			BasePositionNotional:   decimal.NewFromInt(100),
		}
		got := AdjustedMarginFraction(steep, decimal.NewFromInt(400), true)
		if !got.Equal(decimal.NewFromInt(1)) {
			t.Errorf("adjusted fraction = %s, want 1", got)
		}
	})
}

func TestPositionRisk(t *testing.T) {
	tier := defaultTier()

	risk := PositionRisk(decimal.NewFromInt(2), decimal.NewFromInt(30_000), tier)
	if !risk.Initial.Equal(decimal.NewFromInt(3_000)) {
		t.Errorf("initial risk = %s, want 3000", risk.Initial)
	}
	if !risk.Maintenance.Equal(decimal.NewFromInt(1_800)) {
		t.Errorf("maintenance risk = %s, want 1800", risk.Maintenance)
	}

	t.Run("short position risk matches long", func(t *testing.T) {
		short := PositionRisk(decimal.NewFromInt(-2), decimal.NewFromInt(30_000), tier)
		if !short.Initial.Equal(risk.Initial) {
			t.Errorf("short initial risk = %s, want %s", short.Initial, risk.Initial)
		}
	})
}

func TestSignedNotional(t *testing.T) {
	got := SignedNotional(decimal.RequireFromString("-1.5"), decimal.NewFromInt(50_000))
	if !got.Equal(decimal.NewFromInt(-75_000)) {
		t.Errorf("SignedNotional = %s, want -75000", got)
	}
}

func TestRiskForPosition(t *testing.T) {
	tier := defaultTier()
	markets := map[string]model.Market{
		"0": {ID: "0", Pair: "BTC-USD", OraclePrice: decimal.NewFromInt(50_000), LiquidityTierID: tier.ID},
	}
	tiers := map[uint32]model.LiquidityTier{tier.ID: tier}
	pos := model.PerpetualPosition{
		PerpetualID: "0",
		Side:        types.PositionSideLong,
		Status:      types.PositionStatusOpen,
		Size:        decimal.NewFromInt(1),
	}

	risk, err := RiskForPosition(pos, markets, tiers)
	if err != nil {
		t.Fatalf("RiskForPosition: %v", err)
	}
	if !risk.Initial.Equal(decimal.NewFromInt(2_500)) {
		t.Errorf("initial risk = %s, want 2500", risk.Initial)
	}

	t.Run("missing market", func(t *testing.T) {
		pos := pos
		pos.PerpetualID = "99"
		_, err := RiskForPosition(pos, markets, tiers)
		var nf *model.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("err = %v, want NotFoundError", err)
		}
	})

	t.Run("missing liquidity tier", func(t *testing.T) {
		markets := map[string]model.Market{
			"0": {ID: "0", OraclePrice: decimal.NewFromInt(50_000), LiquidityTierID: 42},
		}
		_, err := RiskForPosition(pos, markets, tiers)
		var nf *model.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("err = %v, want NotFoundError", err)
		}
	})
}

func TestSqrtDecimal(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"0", "0"},
		{"1", "1"},
		{"4", "2"},
		{"9", "3"},
		{"144", "12"},
	}
	for _, tc := range cases {
		got := sqrtDecimal(decimal.RequireFromString(tc.in))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("sqrtDecimal(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}

	t.Run("irrational roots square back within epsilon", func(t *testing.T) {
		in := decimal.NewFromInt(2)
		root := sqrtDecimal(in)
		diff := root.Mul(root).Sub(in).Abs()
		if diff.GreaterThan(decimal.New(1, -12)) {
			t.Errorf("sqrt(2)^2 - 2 = %s, want < 1e-12", diff)
		}
	})
}
