package funding

import (
	"testing"

	"lv-perpquery/internal/model"
	"lv-perpquery/internal/types"

	"github.com/shopspring/decimal"
)

func openPosition(perpetualID string, side types.PositionSide, size string) model.PerpetualPosition {
	return model.PerpetualPosition{
		PerpetualID: perpetualID,
		Side:        side,
		Status:      types.PositionStatusOpen,
		Size:        decimal.RequireFromString(size),
	}
}

func TestUnsettled(t *testing.T) {
	lastApplied := model.FundingIndex{"0": decimal.NewFromInt(100)}
	latest := model.FundingIndex{"0": decimal.RequireFromString("102.5")}

	t.Run("long position", func(t *testing.T) {
		got := Unsettled(openPosition("0", types.PositionSideLong, "10"), lastApplied, latest)
		if !got.Equal(decimal.NewFromInt(25)) {
			t.Errorf("Unsettled = %s, want 25", got)
		}
	})

	t.Run("short position flips sign", func(t *testing.T) {
		got := Unsettled(openPosition("0", types.PositionSideShort, "10"), lastApplied, latest)
		if !got.Equal(decimal.NewFromInt(-25)) {
			t.Errorf("Unsettled = %s, want -25", got)
		}
	})

	t.Run("closed position is always zero", func(t *testing.T) {
		pos := openPosition("0", types.PositionSideLong, "10")
		pos.Status = types.PositionStatusClosed
		got := Unsettled(pos, lastApplied, latest)
		if !got.IsZero() {
			t.Errorf("Unsettled = %s, want 0", got)
		}
	})

	t.Run("perpetual absent from both snapshots is zero", func(t *testing.T) {
		got := Unsettled(openPosition("7", types.PositionSideLong, "10"), lastApplied, latest)
		if !got.IsZero() {
			t.Errorf("Unsettled = %s, want 0", got)
		}
	})
}

func TestTotalUnsettled(t *testing.T) {
	lastApplied := model.FundingIndex{"0": decimal.NewFromInt(100), "1": decimal.NewFromInt(50)}
	latest := model.FundingIndex{"0": decimal.NewFromInt(101), "1": decimal.NewFromInt(49)}
	positions := []model.PerpetualPosition{
		openPosition("0", types.PositionSideLong, "2"),   // +2
		openPosition("1", types.PositionSideLong, "4"),   // -4
		openPosition("0", types.PositionSideShort, "10"), // -10
	}

	got := TotalUnsettled(positions, lastApplied, latest)
	if !got.Equal(decimal.NewFromInt(-12)) {
		t.Errorf("TotalUnsettled = %s, want -12", got)
	}

	t.Run("order independent", func(t *testing.T) {
		reversed := []model.PerpetualPosition{positions[2], positions[1], positions[0]}
		if !TotalUnsettled(reversed, lastApplied, latest).Equal(got) {
			t.Error("TotalUnsettled depends on input order")
		}
	})
}
