package risk

import (
	"errors"
	"math"
	"testing"

	"trade-advisor/internal/types"
)

var forexSymbol = types.SymbolInfo{
	ContractSize: 100_000,
	TickValue:    1.0,
	TickSize:     0.0001,
	MinVolume:    0.01,
	VolumeStep:   0.01,
}

func TestLevelsLong(t *testing.T) {
	fig, err := Levels(Input{
		Entry:         1.1000,
		ATR:           0.0020,
		ATRMultiplier: 1.5,
		RRTarget:      2.0,
		Direction:     types.Long,
		Balance:       10_000,
		RiskPct:       0.01,
		Symbol:        forexSymbol,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !fig.HasLevels {
		t.Fatal("Expected levels to be derived")
	}

	// distance = 0.003, stop below entry, target 2x above
	if math.Abs(fig.StopLoss-1.0970) > 1e-9 {
		t.Errorf("Expected stop 1.0970, got %f", fig.StopLoss)
	}
	if math.Abs(fig.TakeProfit-1.1060) > 1e-9 {
		t.Errorf("Expected target 1.1060, got %f", fig.TakeProfit)
	}
	if math.Abs(fig.RewardRisk-2.0) > 1e-9 {
		t.Errorf("Expected RR 2.0, got %f", fig.RewardRisk)
	}
	if !(fig.StopLoss < 1.1000 && 1.1000 < fig.TakeProfit) {
		t.Error("Expected long ordering stop < entry < target")
	}
}

func TestLevelsShort(t *testing.T) {
	fig, err := Levels(Input{
		Entry:         1.1000,
		ATR:           0.0020,
		ATRMultiplier: 1.5,
		RRTarget:      2.0,
		Direction:     types.Short,
		Balance:       10_000,
		RiskPct:       0.01,
		Symbol:        forexSymbol,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !(fig.TakeProfit < 1.1000 && 1.1000 < fig.StopLoss) {
		t.Errorf("Expected short ordering target < entry < stop, got stop=%f target=%f",
			fig.StopLoss, fig.TakeProfit)
	}
}

func TestLevelsNoATR(t *testing.T) {
	for _, atr := range []float64{0, -1, math.NaN()} {
		_, err := Levels(Input{Entry: 1.1, ATR: atr, Direction: types.Long, Symbol: forexSymbol})
		if !errors.Is(err, ErrNoLevels) {
			t.Errorf("Expected ErrNoLevels for ATR %f, got %v", atr, err)
		}
	}
}

func TestVolumeSizing(t *testing.T) {
	// riskAmount = 10000 * 0.01 = 100
	// riskDist = 0.003 -> 30 ticks -> 30 per lot -> vol = 100/30 = 3.33 -> 3.33 rounded to 0.01 step
	fig, err := Levels(Input{
		Entry:         1.1000,
		ATR:           0.0020,
		ATRMultiplier: 1.5,
		RRTarget:      2.0,
		Direction:     types.Long,
		Balance:       10_000,
		RiskPct:       0.01,
		Symbol:        forexSymbol,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(fig.Volume-3.33) > 1e-9 {
		t.Errorf("Expected volume 3.33, got %f", fig.Volume)
	}

	// volume is a multiple of the step
	steps := fig.Volume / forexSymbol.VolumeStep
	if math.Abs(steps-math.Round(steps)) > 1e-6 {
		t.Errorf("Expected volume on the step grid, got %f", fig.Volume)
	}
}

func TestVolumeFloorsAtMinimum(t *testing.T) {
	// Tiny balance: computed volume rounds to zero, floors at min volume.
	fig, err := Levels(Input{
		Entry:         1.1000,
		ATR:           0.0200,
		ATRMultiplier: 1.5,
		RRTarget:      2.0,
		Direction:     types.Long,
		Balance:       10,
		RiskPct:       0.001,
		Symbol:        forexSymbol,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fig.Volume != forexSymbol.MinVolume {
		t.Errorf("Expected floor at min volume %f, got %f", forexSymbol.MinVolume, fig.Volume)
	}
}

func TestLevelsDefaults(t *testing.T) {
	// Zero multiplier and RR target fall back to 1.5 / 2.0.
	fig, err := Levels(Input{
		Entry:     100,
		ATR:       2,
		Direction: types.Long,
		Balance:   10_000,
		RiskPct:   0.01,
		Symbol:    forexSymbol,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(fig.StopLoss-97.0) > 1e-9 {
		t.Errorf("Expected stop 97 with default multiplier, got %f", fig.StopLoss)
	}
	if math.Abs(fig.TakeProfit-106.0) > 1e-9 {
		t.Errorf("Expected target 106 with default RR, got %f", fig.TakeProfit)
	}
}
