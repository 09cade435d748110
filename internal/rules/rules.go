// Package rules holds the per-(symbol, timeframe) strategy documents and
// per-symbol trading profiles, plus a file-backed store for both.
package rules

import (
	"fmt"

	"trade-advisor/internal/facts"
	"trade-advisor/internal/indicator"
	"trade-advisor/internal/types"
)

// ValidTimeframes are the bar timeframes the bridge understands.
var ValidTimeframes = []string{"M1", "M5", "M15", "M30", "H1", "H4", "D1"}

// ValidSessions are the trading sessions the session clock can report.
var ValidSessions = []string{"London", "NewYork", "Tokyo", "Sydney"}

// Conditions names the facts that make up each EMNR flag. Every list is
// AND-combined; an empty list means the flag stays false.
type Conditions struct {
	Entry  []string `json:"entry"`
	Exit   []string `json:"exit"`
	Strong []string `json:"strong"`
	Weak   []string `json:"weak"`
}

// Strategy holds the non-indicator strategy parameters.
type Strategy struct {
	Direction          types.Direction `json:"direction"`
	MinRR              float64         `json:"min_rr"`
	NewsEmbargoMinutes int             `json:"news_embargo_minutes"`
	Invalidations      []string        `json:"invalidations"`
}

// RuleSet is one strategy document. Immutable for the duration of an
// evaluation; authored and edited through the store.
type RuleSet struct {
	Symbol     string           `json:"symbol"`
	Timeframe  string           `json:"timeframe"`
	Sessions   []string         `json:"sessions"`
	Indicators indicator.Config `json:"indicators"`
	Conditions Conditions       `json:"conditions"`
	Strategy   Strategy         `json:"strategy"`
}

// ProfileStyle is the risk style block of a symbol profile.
type ProfileStyle struct {
	Bias       string  `json:"bias"`
	RRTarget   float64 `json:"rrTarget"`
	MaxRiskPct float64 `json:"maxRiskPct"`
}

// ProfileManagement is the trade management block of a symbol profile.
type ProfileManagement struct {
	BreakevenAfterRR float64 `json:"breakevenAfterRR"`
	PartialAtRR      float64 `json:"partialAtRR"`
	TrailUsingATR    bool    `json:"trailUsingATR"`
	ATRMultiplier    float64 `json:"atrMultiplier"`
}

// Profile captures a symbol's historically favorable trading windows and
// risk parameters. Optional: evaluation proceeds without one, it only
// affects the alignment bonus and risk defaults.
type Profile struct {
	Symbol         string            `json:"symbol"`
	BestSessions   []string          `json:"bestSessions"`
	BestTimeframes []string          `json:"bestTimeframes"`
	Style          ProfileStyle      `json:"style"`
	Management     ProfileManagement `json:"management"`
}

// Store is the strategy/profile collaborator consumed by the orchestrator.
type Store interface {
	LoadRuleSet(symbol, timeframe string) (*RuleSet, error)
	LoadProfile(symbol string) (*Profile, error)
}

// NotFoundError reports a missing strategy document. It carries a
// remediation hint since this is a user-actionable condition.
type NotFoundError struct {
	Symbol    string
	Timeframe string
	Dir       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no strategy for %s %s: create %s/%s_%s.json or save one via the rules store",
		e.Symbol, e.Timeframe, e.Dir, e.Symbol, e.Timeframe)
}

// Default returns the stock rule set for a symbol/timeframe: EMA 20/50
// trend-following with RSI neutrality gate, MACD confirmation and wick
// rejection as the weak signal.
func Default(symbol, timeframe string) *RuleSet {
	return &RuleSet{
		Symbol:     symbol,
		Timeframe:  timeframe,
		Sessions:   []string{"London", "NewYork"},
		Indicators: indicator.DefaultConfig(),
		Conditions: Conditions{
			Entry:  []string{facts.MAFastGtSlow, facts.RSINeutral},
			Exit:   []string{facts.RSIOverbought},
			Strong: []string{facts.MACDHistPos},
			Weak:   []string{facts.LongUpperWick},
		},
		Strategy: Strategy{
			Direction:          types.Long,
			MinRR:              2.0,
			NewsEmbargoMinutes: 30,
			Invalidations:      []string{facts.PriceBelowSlow},
		},
	}
}

// Validate checks a rule set at authoring time and returns every problem
// found. Unknown fact references are rejected here so misconfigured rule
// sets are caught before they ever reach an evaluation.
func Validate(rs *RuleSet) []string {
	var errs []string

	if rs.Symbol == "" {
		errs = append(errs, "symbol is required")
	}
	if !contains(ValidTimeframes, rs.Timeframe) {
		errs = append(errs, fmt.Sprintf("invalid timeframe %q", rs.Timeframe))
	}
	if rs.Strategy.Direction != types.Long && rs.Strategy.Direction != types.Short {
		errs = append(errs, fmt.Sprintf("direction must be %q or %q, got %q", types.Long, types.Short, rs.Strategy.Direction))
	}
	if rs.Strategy.MinRR < 1.0 {
		errs = append(errs, fmt.Sprintf("min_rr must be >= 1.0, got %.2f", rs.Strategy.MinRR))
	}
	if rs.Strategy.NewsEmbargoMinutes < 0 {
		errs = append(errs, "news_embargo_minutes must be >= 0")
	}
	for _, s := range rs.Sessions {
		if !contains(ValidSessions, s) {
			errs = append(errs, fmt.Sprintf("invalid session %q", s))
		}
	}
	if k := rs.Indicators.MA.Kind; k != "" && k != "ema" && k != "sma" {
		errs = append(errs, fmt.Sprintf("ma.kind must be \"ema\" or \"sma\", got %q", k))
	}

	lists := map[string][]string{
		"entry":         rs.Conditions.Entry,
		"exit":          rs.Conditions.Exit,
		"strong":        rs.Conditions.Strong,
		"weak":          rs.Conditions.Weak,
		"invalidations": rs.Strategy.Invalidations,
	}
	for list, names := range lists {
		for _, name := range names {
			if !facts.IsKnown(name) {
				errs = append(errs, fmt.Sprintf("%s references unknown fact %q", list, name))
			}
		}
	}

	return errs
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
