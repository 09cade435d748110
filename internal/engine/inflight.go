package engine

import (
	"fmt"
	"sync"
)

// InFlightError reports that the symbol is already being evaluated. The
// caller should retry after the current cycle completes.
type InFlightError struct{ Symbol string }

func (e *InFlightError) Error() string {
	return fmt.Sprintf("evaluation already in flight for %s", e.Symbol)
}

// inflight rejects concurrent evaluations of the same symbol. Different
// symbols evaluate in parallel freely.
type inflight struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{busy: map[string]struct{}{}}
}

func (f *inflight) acquire(symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.busy[symbol]; ok {
		return &InFlightError{Symbol: symbol}
	}
	f.busy[symbol] = struct{}{}
	return nil
}

func (f *inflight) release(symbol string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.busy, symbol)
}
