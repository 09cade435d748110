package indicator

import (
	"math"
	"sort"

	"trade-advisor/internal/types"
)

// SMA returns the arithmetic mean of the last n values.
func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// EMASeries returns the exponential moving average of vals with the given
// span, seeded from the first value (no warm-up adjustment), so the series
// has the same length as the input.
func EMASeries(vals []float64, span int) []float64 {
	if len(vals) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(vals))
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1-alpha)*out[i-1]
	}
	return out
}

// EMA returns the latest exponential moving average value.
func EMA(vals []float64, span int) float64 {
	s := EMASeries(vals, span)
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1]
}

// RSI returns the relative strength index over the last period deltas,
// bounded to [0, 100].
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// MACD returns the latest MACD line, signal line and histogram values for
// the given fast/slow/signal spans.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist float64) {
	if len(closes) < slow || fast <= 0 || slow <= 0 || signal <= 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	sigSeries := EMASeries(macd, signal)
	n := len(closes) - 1
	return macd[n], sigSeries[n], macd[n] - sigSeries[n]
}

// ATRSeries returns the rolling average true range over the bar series.
// The first period entries are NaN (no full window yet).
func ATRSeries(bars []types.Bar, period int) []float64 {
	if period <= 0 || len(bars) < period+1 {
		return nil
	}
	trs := make([]float64, len(bars))
	trs[0] = math.NaN()
	for i := 1; i < len(bars); i++ {
		tr1 := bars[i].High - bars[i].Low
		tr2 := math.Abs(bars[i].High - bars[i-1].Close)
		tr3 := math.Abs(bars[i].Low - bars[i-1].Close)
		trs[i] = math.Max(tr1, math.Max(tr2, tr3))
	}
	out := make([]float64, len(bars))
	for i := range out {
		if i < period {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += trs[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// Median returns the median of the finite values in vals, or NaN if there
// are none.
func Median(vals []float64) float64 {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	n := len(clean)
	if n%2 == 1 {
		return clean[n/2]
	}
	return (clean[n/2-1] + clean[n/2]) / 2
}
