// Package facts turns an indicator set and the latest candle into named
// boolean facts. The fact vocabulary is a closed set: rule sets may only
// reference the names enumerated here, and referencing anything else is a
// validation error, never a silent false.
package facts

import (
	"math"

	"trade-advisor/internal/indicator"
	"trade-advisor/internal/types"
)

// Fact names. Grouped by the indicator that produces them.
const (
	MAFastGtSlow    = "ma_fast_gt_slow"
	MAFastLtSlow    = "ma_fast_lt_slow"
	PriceAboveFast  = "price_above_ma_fast"
	PriceBelowFast  = "price_below_ma_fast"
	PriceAboveSlow  = "price_above_ma_slow"
	PriceBelowSlow  = "price_below_ma_slow"
	RSIOversold     = "rsi_oversold"
	RSIOverbought   = "rsi_overbought"
	RSINeutral      = "rsi_neutral"
	MACDHistPos     = "macd_hist_positive"
	MACDHistNeg     = "macd_hist_negative"
	ATRAboveMedian  = "atr_above_median"
	ATRBelowMedian  = "atr_below_median"
	LongUpperWick   = "long_upper_wick"
	LongLowerWick   = "long_lower_wick"
)

// wickRatio: a wick counts as "long" when it exceeds this multiple of the
// candle body.
const wickRatio = 2.0

// rsi neutral band bounds
const (
	rsiNeutralLow  = 40.0
	rsiNeutralHigh = 60.0
)

// Facts maps fact names to booleans. A name missing from the map means the
// fact could not be derived this cycle (its indicator was unavailable),
// which is distinct from the fact being false.
type Facts map[string]bool

var known = map[string]struct{}{
	MAFastGtSlow:   {},
	MAFastLtSlow:   {},
	PriceAboveFast: {},
	PriceBelowFast: {},
	PriceAboveSlow: {},
	PriceBelowSlow: {},
	RSIOversold:    {},
	RSIOverbought:  {},
	RSINeutral:     {},
	MACDHistPos:    {},
	MACDHistNeg:    {},
	ATRAboveMedian: {},
	ATRBelowMedian: {},
	LongUpperWick:  {},
	LongLowerWick:  {},
}

// IsKnown reports whether name belongs to the closed fact vocabulary.
func IsKnown(name string) bool {
	_, ok := known[name]
	return ok
}

// Known returns the full fact vocabulary (copy, unsorted).
func Known() []string {
	out := make([]string, 0, len(known))
	for k := range known {
		out = append(out, k)
	}
	return out
}

// Generate derives all producible facts from the indicator set and the most
// recent bar. Pure function: no I/O, no state.
func Generate(ind types.IndicatorSet, last types.Bar, rsiCfg indicator.RSIConfig) Facts {
	f := Facts{}
	price := last.Close

	if valid(ind.MAFast) && valid(ind.MASlow) {
		f[MAFastGtSlow] = ind.MAFast > ind.MASlow
		f[MAFastLtSlow] = ind.MAFast < ind.MASlow
		f[PriceAboveFast] = price > ind.MAFast
		f[PriceBelowFast] = price < ind.MAFast
		f[PriceAboveSlow] = price > ind.MASlow
		f[PriceBelowSlow] = price < ind.MASlow
	}

	if valid(ind.RSI) {
		oversold, overbought := rsiCfg.Oversold, rsiCfg.Overbought
		if oversold <= 0 {
			oversold = 30
		}
		if overbought <= 0 {
			overbought = 70
		}
		f[RSIOversold] = ind.RSI < oversold
		f[RSIOverbought] = ind.RSI > overbought
		f[RSINeutral] = ind.RSI >= rsiNeutralLow && ind.RSI <= rsiNeutralHigh
	}

	if valid(ind.MACDHist) {
		f[MACDHistPos] = ind.MACDHist > 0
		f[MACDHistNeg] = ind.MACDHist < 0
	}

	if valid(ind.ATR) && valid(ind.ATRMedian) {
		f[ATRAboveMedian] = ind.ATR > ind.ATRMedian
		f[ATRBelowMedian] = ind.ATR < ind.ATRMedian
	}

	body := math.Abs(last.Close - last.Open)
	upper := last.High - math.Max(last.Open, last.Close)
	lower := math.Min(last.Open, last.Close) - last.Low
	if body > 0 {
		f[LongUpperWick] = upper > body*wickRatio
		f[LongLowerWick] = lower > body*wickRatio
	} else {
		f[LongUpperWick] = false
		f[LongLowerWick] = false
	}

	return f
}

func valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
