package indicator

import (
	"fmt"
	"math"

	"trade-advisor/internal/types"
)

// DefaultMinBars is the smallest window an evaluation may run on.
const DefaultMinBars = 50

// Config holds per-strategy indicator parameters. It is embedded in a rule
// set and treated as immutable for the duration of one evaluation.
type Config struct {
	MA   MAConfig   `json:"ma" yaml:"ma"`
	RSI  RSIConfig  `json:"rsi" yaml:"rsi"`
	MACD MACDConfig `json:"macd" yaml:"macd"`
	ATR  ATRConfig  `json:"atr" yaml:"atr"`
}

// MAConfig selects the fast/slow moving-average pair. Kind is "ema"
// (exponential) or "sma" (arithmetic).
type MAConfig struct {
	Kind string `json:"kind" yaml:"kind"`
	Fast int    `json:"fast" yaml:"fast"`
	Slow int    `json:"slow" yaml:"slow"`
}

type RSIConfig struct {
	Period     int     `json:"period" yaml:"period"`
	Oversold   float64 `json:"oversold" yaml:"oversold"`
	Overbought float64 `json:"overbought" yaml:"overbought"`
}

type MACDConfig struct {
	Fast   int `json:"fast" yaml:"fast"`
	Slow   int `json:"slow" yaml:"slow"`
	Signal int `json:"signal" yaml:"signal"`
}

type ATRConfig struct {
	Period       int     `json:"period" yaml:"period"`
	Multiplier   float64 `json:"multiplier" yaml:"multiplier"`
	MedianWindow int     `json:"median_window" yaml:"median_window"`
}

// DefaultConfig returns the stock parameter set: EMA 20/50, RSI 14 (30/70),
// MACD 12/26/9, ATR 14 with a 50-sample median window.
func DefaultConfig() Config {
	return Config{
		MA:   MAConfig{Kind: "ema", Fast: 20, Slow: 50},
		RSI:  RSIConfig{Period: 14, Oversold: 30, Overbought: 70},
		MACD: MACDConfig{Fast: 12, Slow: 26, Signal: 9},
		ATR:  ATRConfig{Period: 14, Multiplier: 1.5, MedianWindow: 50},
	}
}

// InsufficientDataError reports that the bar window is too short to compute
// the configured indicators. It is retryable once more history is available.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient bars: have %d, need %d", e.Have, e.Need)
}

// Compute derives the full indicator set from the bar window. Everything is
// recomputed from scratch each cycle; no state is carried between calls, so
// identical input always yields an identical IndicatorSet.
//
// minBars <= 0 falls back to DefaultMinBars.
func Compute(bars []types.Bar, cfg Config, minBars int) (types.IndicatorSet, error) {
	if minBars <= 0 {
		minBars = DefaultMinBars
	}
	if len(bars) < minBars {
		return types.IndicatorSet{}, &InsufficientDataError{Have: len(bars), Need: minBars}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	var set types.IndicatorSet
	if cfg.MA.Kind == "sma" {
		set.MAFast = SMA(closes, cfg.MA.Fast)
		set.MASlow = SMA(closes, cfg.MA.Slow)
	} else {
		set.MAFast = EMA(closes, cfg.MA.Fast)
		set.MASlow = EMA(closes, cfg.MA.Slow)
	}

	set.RSI = RSI(closes, cfg.RSI.Period)
	set.MACD, set.MACDSignal, set.MACDHist = MACD(closes, cfg.MACD.Fast, cfg.MACD.Slow, cfg.MACD.Signal)

	atrs := ATRSeries(bars, cfg.ATR.Period)
	if len(atrs) > 0 {
		set.ATR = atrs[len(atrs)-1]
		win := cfg.ATR.MedianWindow
		if win <= 0 || win > len(atrs) {
			win = len(atrs)
		}
		set.ATRMedian = Median(atrs[len(atrs)-win:])
	} else {
		set.ATR = math.NaN()
		set.ATRMedian = math.NaN()
	}

	return set, nil
}
