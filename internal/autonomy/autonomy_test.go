package autonomy

import (
	"context"
	"testing"

	"trade-advisor/internal/broker/sim"
	"trade-advisor/internal/engine"
	"trade-advisor/internal/rules"
	"trade-advisor/internal/store"
)

type defaultStore struct{}

func (defaultStore) LoadRuleSet(symbol, timeframe string) (*rules.RuleSet, error) {
	return rules.Default(symbol, timeframe), nil
}

func (defaultStore) LoadProfile(symbol string) (*rules.Profile, error) {
	return nil, nil
}

func testLoop(t *testing.T) *Loop {
	t.Helper()
	cfg := &store.Config{Mode: "SEMI_AUTO", MinBars: 50, BarCount: 200}
	cfg.Universe.Symbols = []string{"EURUSD", "GBPUSD"}
	cfg.Universe.DefaultTimeframe = "H1"
	cfg.Risk.DefaultRiskPct = 1.0

	brk := sim.New()
	eng := engine.New(cfg, brk, defaultStore{}, nil, nil, engine.Options{})
	exec := engine.NewExecutor(brk, eng.Book(), cfg.Mode)
	return NewLoop(eng, exec)
}

func TestRunNowUpdatesStatus(t *testing.T) {
	l := testLoop(t)
	ctx := context.Background()

	l.RunNow(ctx)

	st := l.Status()
	if st.Cycles != 1 {
		t.Errorf("Expected 1 cycle, got %d", st.Cycles)
	}
	if st.Evaluations != 2 {
		t.Errorf("Expected 2 evaluations, got %d", st.Evaluations)
	}
	if st.LastRun.IsZero() {
		t.Error("Expected last run to be recorded")
	}

	l.RunNow(ctx)
	if st = l.Status(); st.Cycles != 2 || st.Evaluations != 4 {
		t.Errorf("Expected counters to accumulate, got %+v", st)
	}
}

func TestStartValidation(t *testing.T) {
	l := testLoop(t)
	ctx := context.Background()

	if err := l.Start(ctx, 0); err == nil {
		t.Error("Expected error for non-positive interval")
	}
	if err := l.Start(ctx, 15); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer l.Stop(ctx)

	if err := l.Start(ctx, 15); err == nil {
		t.Error("Expected error for double start")
	}
	if !l.Status().Running {
		t.Error("Expected running status after start")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := testLoop(t)
	ctx := context.Background()

	if err := l.Start(ctx, 15); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	l.Stop(ctx)
	if l.Status().Running {
		t.Error("Expected stopped status")
	}
	l.Stop(ctx)
}
