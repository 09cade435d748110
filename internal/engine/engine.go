// Package engine orchestrates one evaluation cycle per symbol: bars in,
// indicators, facts, condition flags, confidence, risk figures and finally
// an execution plan with an optional trade idea. Every cycle is recomputed
// from scratch; the engine carries no market state between cycles.
package engine

import (
	"context"
	"errors"
	"time"

	"trade-advisor/internal/confidence"
	"trade-advisor/internal/decisionlog"
	"trade-advisor/internal/emnr"
	"trade-advisor/internal/facts"
	"trade-advisor/internal/idea"
	"trade-advisor/internal/indicator"
	"trade-advisor/internal/interfaces"
	"trade-advisor/internal/logger"
	"trade-advisor/internal/news"
	"trade-advisor/internal/planner"
	"trade-advisor/internal/risk"
	"trade-advisor/internal/rules"
	"trade-advisor/internal/store"
	"trade-advisor/internal/trace"
	"trade-advisor/internal/types"
)

// ErrDisabled reports that the symbol is disabled or trading is halted.
var ErrDisabled = errors.New("symbol disabled or trading halted")

// Engine coordinates one full evaluation per (symbol, timeframe).
type Engine struct {
	cfg      *store.Config
	brk      interfaces.Broker
	rules    rules.Store
	news     interfaces.NewsPenalty
	sink     decisionlog.Sink
	factory  *idea.Factory
	book     *idea.Book
	registry *Registry
	inflight *inflight
	loc      *time.Location
	now      func() time.Time
}

// Options are the injectable collaborators tests pin for determinism.
type Options struct {
	Clock    func() time.Time
	IDGen    func() string
	Location *time.Location
}

// New creates an engine over the configured universe.
func New(cfg *store.Config, brk interfaces.Broker, rulesStore rules.Store,
	newsPenalty interfaces.NewsPenalty, sink decisionlog.Sink, opts Options) *Engine {

	if newsPenalty == nil {
		newsPenalty = news.NoopPenalty{}
	}
	if sink == nil {
		sink = decisionlog.Noop{}
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	var factoryOpts []idea.Option
	if opts.Clock != nil {
		factoryOpts = append(factoryOpts, idea.WithClock(opts.Clock))
	}
	if opts.IDGen != nil {
		factoryOpts = append(factoryOpts, idea.WithIDGen(opts.IDGen))
	}

	return &Engine{
		cfg:      cfg,
		brk:      brk,
		rules:    rulesStore,
		news:     newsPenalty,
		sink:     sink,
		factory:  idea.NewFactory(factoryOpts...),
		book:     idea.NewBook(),
		registry: NewRegistry(cfg.Universe.Symbols),
		inflight: newInflight(),
		loc:      loc,
		now:      now,
	}
}

// Book exposes the trade idea registry.
func (e *Engine) Book() *idea.Book { return e.book }

// Registry exposes the symbol enable/disable and kill-switch controls.
func (e *Engine) Registry() *Registry { return e.registry }

// Evaluate runs one full evaluation cycle. It returns a result for every
// completed cycle, including those that end in observe-only; errors are
// reserved for cycles that could not complete (missing strategy, bridge
// failure, insufficient history, misconfigured conditions, or a concurrent
// evaluation of the same symbol).
func (e *Engine) Evaluate(ctx context.Context, symbol, timeframe string) (*types.EvaluationResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Evaluate")
	defer span.End()

	if timeframe == "" {
		timeframe = e.cfg.Universe.DefaultTimeframe
	}

	if !e.registry.IsEnabled(symbol) {
		return nil, ErrDisabled
	}
	if err := e.inflight.acquire(symbol); err != nil {
		return nil, err
	}
	defer e.inflight.release(symbol)

	rs, err := e.rules.LoadRuleSet(symbol, timeframe)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load rule set", err, "symbol", symbol, "timeframe", timeframe)
		return nil, err
	}
	profile, err := e.rules.LoadProfile(symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load profile", err, "symbol", symbol)
		return nil, err
	}

	bars, err := e.brk.FetchBars(ctx, symbol, timeframe, e.cfg.BarCount)
	if err != nil {
		return nil, err
	}

	ind, err := indicator.Compute(bars, rs.Indicators, e.cfg.MinBars)
	if err != nil {
		logger.Warn(ctx, "Indicator computation failed", "symbol", symbol, "timeframe", timeframe, "error", err.Error())
		return nil, err
	}

	last := bars[len(bars)-1]
	fs := facts.Generate(ind, last, rs.Indicators.RSI)

	flags, err := emnr.Evaluate(fs, rs.Conditions)
	if err != nil {
		// Misconfigured condition lists must surface, never degrade to false.
		logger.ErrorWithErr(ctx, "Condition evaluation failed", err, "symbol", symbol, "timeframe", timeframe)
		return nil, err
	}

	session := CurrentSession(e.now().In(e.loc))
	aligned := alignment(timeframe, session, profile, rs)

	penalty := 0
	if rs.Strategy.NewsEmbargoMinutes > 0 {
		penalty, err = e.news.Penalty(ctx, symbol, rs.Strategy.NewsEmbargoMinutes)
		if err != nil {
			logger.Warn(ctx, "News penalty check failed, assuming none", "symbol", symbol, "error", err.Error())
			penalty = 0
		}
	}

	score := confidence.Score(flags, aligned, penalty)
	riskPct := e.defaultRiskPct(profile)

	var figures types.RiskFigures
	rrOK := false
	if score >= confidence.ThresholdMedium {
		figures, rrOK, err = e.riskFigures(ctx, symbol, last.Close, ind, profile, rs, riskPct)
		if err != nil {
			return nil, err
		}
	}

	plan := planner.Plan(score, rrOK, riskPct)
	msg := planner.Describe(plan.Action)

	// Re-check under the registry lock so a kill switch engaged mid-cycle
	// can never be followed by a new idea.
	var ti *types.TradeIdea
	if plan.Action.Executable() {
		if e.registry.IsEnabled(symbol) {
			ti = e.factory.Build(idea.BuildInput{
				Symbol:     symbol,
				Timeframe:  timeframe,
				Confidence: score,
				Direction:  rs.Strategy.Direction,
				EntryPrice: last.Close,
				Figures:    figures,
				Flags:      flags,
				Indicators: ind,
				Plan:       plan,
			})
			e.book.Add(ti)
		} else {
			plan = types.ExecutionPlan{Action: types.ActionObserve}
			msg = "trading halted before idea creation"
		}
	}

	logger.Decision(ctx, symbol, timeframe, score, string(plan.Action),
		"session", session,
		"aligned", aligned,
		"news_penalty", penalty,
		"rr_ok", rrOK,
	)

	entry := decisionlog.Entry{
		Symbol:     symbol,
		Timeframe:  timeframe,
		Session:    session,
		Confidence: score,
		Action:     plan.Action,
		Flags:      flags,
		Indicators: ind,
		Message:    msg,
	}
	if ti != nil {
		entry.IdeaID = ti.ID
	}
	if err := e.sink.Append(ctx, entry); err != nil {
		logger.Warn(ctx, "Failed to persist decision", "symbol", symbol, "error", err.Error())
	}

	return &types.EvaluationResult{
		TradeIdea:  ti,
		Confidence: score,
		Action:     plan.Action,
		Message:    msg,
	}, nil
}

// Outcome pairs a symbol with its evaluation result or failure.
type Outcome struct {
	Symbol string
	Result *types.EvaluationResult
	Err    error
}

// EvaluateUniverse evaluates every enabled symbol on the default timeframe.
// One symbol's failure never stops the rest.
func (e *Engine) EvaluateUniverse(ctx context.Context) []Outcome {
	symbols := e.registry.Enabled()
	out := make([]Outcome, 0, len(symbols))
	for _, symbol := range symbols {
		res, err := e.Evaluate(ctx, symbol, "")
		out = append(out, Outcome{Symbol: symbol, Result: res, Err: err})
	}
	return out
}

// riskFigures fetches the account and contract data, then derives levels
// and the reward:risk verdict. A missing volatility measure degrades to
// rrOK=false rather than failing the cycle.
func (e *Engine) riskFigures(ctx context.Context, symbol string, entry float64,
	ind types.IndicatorSet, profile *rules.Profile, rs *rules.RuleSet, riskPct float64) (types.RiskFigures, bool, error) {

	acct, err := e.brk.AccountInfo(ctx)
	if err != nil {
		return types.RiskFigures{}, false, err
	}
	symInfo, err := e.brk.SymbolInfo(ctx, symbol)
	if err != nil {
		return types.RiskFigures{}, false, err
	}

	atrMult := rs.Indicators.ATR.Multiplier
	rrTarget := 0.0
	if profile != nil {
		if profile.Management.ATRMultiplier > 0 {
			atrMult = profile.Management.ATRMultiplier
		}
		rrTarget = profile.Style.RRTarget
	}

	figures, err := risk.Levels(risk.Input{
		Entry:         entry,
		ATR:           ind.ATR,
		ATRMultiplier: atrMult,
		RRTarget:      rrTarget,
		Direction:     rs.Strategy.Direction,
		Balance:       acct.Balance,
		RiskPct:       riskPct,
		Symbol:        symInfo,
	})
	if err != nil {
		if errors.Is(err, risk.ErrNoLevels) {
			logger.Warn(ctx, "No volatility measure, reward:risk unavailable", "symbol", symbol)
			return types.RiskFigures{}, false, nil
		}
		return types.RiskFigures{}, false, err
	}

	return figures, figures.RewardRisk >= rs.Strategy.MinRR, nil
}

// defaultRiskPct resolves the risk fraction for this cycle: the profile's
// cap when present, otherwise the configured default, never above the
// configured maximum.
func (e *Engine) defaultRiskPct(profile *rules.Profile) float64 {
	pct := e.cfg.Risk.DefaultRiskPct / 100
	if profile != nil && profile.Style.MaxRiskPct > 0 {
		pct = profile.Style.MaxRiskPct
	}
	if max := e.cfg.Risk.MaxRiskPct / 100; max > 0 && pct > max {
		pct = max
	}
	return pct
}

// alignment reports whether the timeframe and current session match the
// symbol's historically favorable windows. Without a profile there is
// nothing to align against.
func alignment(timeframe, session string, profile *rules.Profile, rs *rules.RuleSet) bool {
	if profile == nil {
		return false
	}
	if !containsStr(profile.BestTimeframes, timeframe) {
		return false
	}
	return containsStr(profile.BestSessions, session) || containsStr(rs.Sessions, session)
}

func containsStr(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
