// Package autonomy drives unattended evaluation: a cron-scheduled loop
// evaluates every enabled symbol and, in FULL_AUTO mode, hands the
// resulting ideas to the executor.
package autonomy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"trade-advisor/internal/engine"
	"trade-advisor/internal/logger"
)

// Status is a snapshot of the loop's counters.
type Status struct {
	Running      bool      `json:"running"`
	Cycles       int64     `json:"cycles"`
	Evaluations  int64     `json:"evaluations"`
	Failures     int64     `json:"failures"`
	IdeasCreated int64     `json:"ideas_created"`
	Executed     int64     `json:"executed"`
	LastRun      time.Time `json:"last_run"`
}

// Loop runs periodic evaluation sweeps over the universe.
type Loop struct {
	eng  *engine.Engine
	exec *engine.Executor
	cron *cron.Cron

	mu      sync.Mutex
	running bool
	status  Status
}

func NewLoop(eng *engine.Engine, exec *engine.Executor) *Loop {
	return &Loop{
		eng:  eng,
		exec: exec,
		cron: cron.New(),
	}
}

// Start schedules a sweep every intervalMinutes and begins running.
func (l *Loop) Start(ctx context.Context, intervalMinutes int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return fmt.Errorf("autonomy loop already running")
	}
	if intervalMinutes <= 0 {
		return fmt.Errorf("interval must be positive, got %d", intervalMinutes)
	}

	spec := fmt.Sprintf("@every %dm", intervalMinutes)
	if _, err := l.cron.AddFunc(spec, func() { l.sweep(ctx) }); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}

	l.cron.Start()
	l.running = true
	l.status.Running = true
	logger.Info(ctx, "Autonomy loop started", "interval_minutes", intervalMinutes)
	return nil
}

// Stop halts the loop and waits for a running sweep to finish.
func (l *Loop) Stop(ctx context.Context) {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	l.status.Running = false
	l.mu.Unlock()

	<-l.cron.Stop().Done()
	logger.Info(ctx, "Autonomy loop stopped")
}

// RunNow performs one sweep immediately, outside the schedule.
func (l *Loop) RunNow(ctx context.Context) {
	l.sweep(ctx)
}

// Status returns a copy of the loop counters.
func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *Loop) sweep(ctx context.Context) {
	start := time.Now()
	outcomes := l.eng.EvaluateUniverse(ctx)

	var failures, ideas int64
	for _, o := range outcomes {
		if o.Err != nil {
			failures++
			logger.ErrorWithErr(ctx, "Evaluation failed", o.Err, "symbol", o.Symbol)
			continue
		}
		if o.Result.TradeIdea != nil {
			ideas++
		}
	}

	executed := int64(l.exec.HandlePending(ctx))

	l.mu.Lock()
	l.status.Cycles++
	l.status.Evaluations += int64(len(outcomes))
	l.status.Failures += failures
	l.status.IdeasCreated += ideas
	l.status.Executed += executed
	l.status.LastRun = start
	l.mu.Unlock()

	logger.Info(ctx, "Autonomy sweep completed",
		"symbols", len(outcomes),
		"failures", failures,
		"ideas", ideas,
		"executed", executed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
