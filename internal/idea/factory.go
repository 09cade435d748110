// Package idea assembles evaluation output into immutable trade ideas and
// tracks their approval lifecycle.
package idea

import (
	"time"

	"github.com/google/uuid"

	"trade-advisor/internal/types"
)

// Factory builds trade ideas. The clock and ID generator are injectable so
// tests can pin both.
type Factory struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Factory.
type Option func(*Factory)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// WithIDGen overrides the ID generator.
func WithIDGen(gen func() string) Option {
	return func(f *Factory) { f.newID = gen }
}

// NewFactory returns a factory stamping UTC timestamps and UUID ids.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BuildInput is everything a trade idea snapshots at construction.
type BuildInput struct {
	Symbol     string
	Timeframe  string
	Confidence int
	Direction  types.Direction
	EntryPrice float64
	Figures    types.RiskFigures
	Flags      types.EMNRFlags
	Indicators types.IndicatorSet
	Plan       types.ExecutionPlan
}

// Build returns a new pending-approval trade idea, or nil when the plan's
// action does not warrant one (observe / wait_rr cycles produce no idea).
// All numeric fields are copied at call time so the record stays a faithful
// snapshot of the moment of decision.
func (f *Factory) Build(in BuildInput) *types.TradeIdea {
	if !in.Plan.Action.Executable() {
		return nil
	}
	return &types.TradeIdea{
		ID:         f.newID(),
		CreatedAt:  f.now(),
		Symbol:     in.Symbol,
		Timeframe:  in.Timeframe,
		Confidence: in.Confidence,
		Action:     in.Plan.Action,
		Direction:  in.Direction,
		EntryPrice: in.EntryPrice,
		StopLoss:   in.Figures.StopLoss,
		TakeProfit: in.Figures.TakeProfit,
		Volume:     in.Figures.Volume,
		RewardRisk: in.Figures.RewardRisk,
		Flags:      in.Flags,
		Indicators: in.Indicators,
		Plan:       in.Plan,
		Status:     types.StatusPendingApproval,
	}
}
