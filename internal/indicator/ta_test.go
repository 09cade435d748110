package indicator

import (
	"math"
	"testing"

	"trade-advisor/internal/types"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestSMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}

	got := SMA(vals, 5)
	if !almostEqual(got, 3.0, 1e-9) {
		t.Errorf("Expected SMA 3.0, got %f", got)
	}

	got = SMA(vals, 2)
	if !almostEqual(got, 4.5, 1e-9) {
		t.Errorf("Expected SMA 4.5, got %f", got)
	}

	if !math.IsNaN(SMA(vals, 6)) {
		t.Error("Expected NaN for window longer than series")
	}
	if !math.IsNaN(SMA(vals, 0)) {
		t.Error("Expected NaN for zero window")
	}
}

func TestEMASeries(t *testing.T) {
	vals := []float64{10, 20, 30}

	// span=3 -> alpha=0.5, seeded from the first value
	got := EMASeries(vals, 3)
	want := []float64{10, 15, 22.5}
	if len(got) != len(want) {
		t.Fatalf("Expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Errorf("EMASeries[%d]: expected %f, got %f", i, want[i], got[i])
		}
	}

	if !almostEqual(EMA(vals, 3), 22.5, 1e-9) {
		t.Errorf("Expected EMA 22.5, got %f", EMA(vals, 3))
	}
}

func TestRSI(t *testing.T) {
	// Strictly rising closes: no losses, RSI pegs at 100.
	rising := []float64{1, 2, 3, 4, 5, 6}
	if got := RSI(rising, 5); got != 100.0 {
		t.Errorf("Expected RSI 100 for rising series, got %f", got)
	}

	// Equal gains and losses over the window: RSI 50.
	flat := []float64{10, 11, 10, 11, 10}
	if got := RSI(flat, 4); !almostEqual(got, 50.0, 1e-9) {
		t.Errorf("Expected RSI 50 for balanced series, got %f", got)
	}

	if !math.IsNaN(RSI([]float64{1, 2}, 5)) {
		t.Error("Expected NaN for insufficient data")
	}
}

func TestMACDTrendSign(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	line, sig, hist := MACD(closes, 12, 26, 9)
	if math.IsNaN(line) || math.IsNaN(sig) || math.IsNaN(hist) {
		t.Fatal("Expected finite MACD values")
	}
	// Rising series: fast EMA above slow EMA.
	if line <= 0 {
		t.Errorf("Expected positive MACD line on uptrend, got %f", line)
	}
	if !almostEqual(hist, line-sig, 1e-9) {
		t.Errorf("Expected hist = line - signal, got %f vs %f", hist, line-sig)
	}
}

func TestATRSeries(t *testing.T) {
	bars := make([]types.Bar, 20)
	for i := range bars {
		// Constant range of 2.0, no gaps.
		bars[i] = types.Bar{Open: 10, High: 11, Low: 9, Close: 10}
	}

	atrs := ATRSeries(bars, 14)
	if len(atrs) != len(bars) {
		t.Fatalf("Expected %d ATR values, got %d", len(bars), len(atrs))
	}
	for i := 0; i < 14; i++ {
		if !math.IsNaN(atrs[i]) {
			t.Errorf("Expected NaN before the window fills at index %d", i)
		}
	}
	last := atrs[len(atrs)-1]
	if !almostEqual(last, 2.0, 1e-9) {
		t.Errorf("Expected ATR 2.0 for constant-range bars, got %f", last)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); !almostEqual(got, 2.0, 1e-9) {
		t.Errorf("Expected median 2.0, got %f", got)
	}
	if got := Median([]float64{4, 1, 2, 3}); !almostEqual(got, 2.5, 1e-9) {
		t.Errorf("Expected median 2.5, got %f", got)
	}
	if got := Median([]float64{math.NaN(), 5, math.NaN()}); !almostEqual(got, 5.0, 1e-9) {
		t.Errorf("Expected NaN values filtered, got %f", got)
	}
	if !math.IsNaN(Median(nil)) {
		t.Error("Expected NaN for empty input")
	}
}
