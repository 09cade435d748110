package engine

import "sync"

// Registry tracks which symbols are enabled for evaluation and holds the
// kill switch. The same mutex guards both, so a halt and the idea-creation
// check in Evaluate observe a single consistent state.
type Registry struct {
	mu      sync.Mutex
	enabled map[string]bool
	halted  bool
}

func NewRegistry(symbols []string) *Registry {
	r := &Registry{enabled: map[string]bool{}}
	for _, s := range symbols {
		r.enabled[s] = true
	}
	return r
}

// Enable marks a symbol evaluable. No-op while halted.
func (r *Registry) Enable(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.halted {
		return
	}
	r.enabled[symbol] = true
}

// Disable removes a symbol from evaluation.
func (r *Registry) Disable(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, symbol)
}

// IsEnabled reports whether the symbol may be evaluated right now.
func (r *Registry) IsEnabled(symbol string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.halted && r.enabled[symbol]
}

// Enabled returns the currently enabled symbols. Empty while halted.
func (r *Registry) Enabled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.halted {
		return nil
	}
	out := make([]string, 0, len(r.enabled))
	for s := range r.enabled {
		out = append(out, s)
	}
	return out
}

// KillSwitch halts all evaluation and idea creation, returning the symbols
// that were enabled at the instant of the halt. Idempotent: a second call
// returns nil.
func (r *Registry) KillSwitch() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.halted {
		return nil
	}
	r.halted = true
	out := make([]string, 0, len(r.enabled))
	for s := range r.enabled {
		out = append(out, s)
	}
	return out
}

// Resume lifts the kill switch. Symbols keep their prior enabled state.
func (r *Registry) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.halted = false
}

// Halted reports whether the kill switch is engaged.
func (r *Registry) Halted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.halted
}
