package idea

import (
	"fmt"
	"sync"

	"trade-advisor/internal/types"
)

// NotFoundError reports an unknown trade idea ID.
type NotFoundError struct{ ID string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("trade idea %s not found", e.ID) }

// TransitionError reports an illegal status change.
type TransitionError struct {
	ID   string
	From types.IdeaStatus
	To   types.IdeaStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("trade idea %s: cannot move from %s to %s", e.ID, e.From, e.To)
}

// ClaimedError reports a concurrent execution attempt on an idea whose
// order is already being submitted.
type ClaimedError struct{ ID string }

func (e *ClaimedError) Error() string {
	return fmt.Sprintf("trade idea %s is already being executed", e.ID)
}

// Book is the in-memory registry of trade ideas. Status is the only mutable
// field; every accessor hands out copies so callers can never touch the
// stored record.
type Book struct {
	mu      sync.RWMutex
	ideas   map[string]*types.TradeIdea
	order   []string // insertion order, oldest first
	claimed map[string]struct{}
}

func NewBook() *Book {
	return &Book{
		ideas:   map[string]*types.TradeIdea{},
		claimed: map[string]struct{}{},
	}
}

// Add stores a copy of the idea.
func (b *Book) Add(t *types.TradeIdea) {
	if t == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := *t
	b.ideas[cp.ID] = &cp
	b.order = append(b.order, cp.ID)
}

// Get returns a copy of the idea with the given ID.
func (b *Book) Get(id string) (types.TradeIdea, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.ideas[id]
	if !ok {
		return types.TradeIdea{}, &NotFoundError{ID: id}
	}
	return *t, nil
}

// Pending returns all ideas still awaiting approval, oldest first.
func (b *Book) Pending() []types.TradeIdea {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []types.TradeIdea
	for _, id := range b.order {
		if t := b.ideas[id]; t.Status == types.StatusPendingApproval {
			out = append(out, *t)
		}
	}
	return out
}

// History returns up to limit most recent ideas, newest first.
func (b *Book) History(limit int) []types.TradeIdea {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []types.TradeIdea
	for i := len(b.order) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, *b.ideas[b.order[i]])
	}
	return out
}

// legal transitions per the lifecycle:
// pending_approval -> approved | rejected | cancelled
// approved         -> executed | cancelled
var transitions = map[types.IdeaStatus][]types.IdeaStatus{
	types.StatusPendingApproval: {types.StatusApproved, types.StatusRejected, types.StatusCancelled},
	types.StatusApproved:        {types.StatusExecuted, types.StatusCancelled},
}

func (b *Book) transition(id string, to types.IdeaStatus) (types.TradeIdea, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.ideas[id]
	if !ok {
		return types.TradeIdea{}, &NotFoundError{ID: id}
	}
	// A claimed idea's order is in flight; cancellation must wait for the
	// claim holder to finish.
	if _, held := b.claimed[id]; held && to == types.StatusCancelled {
		return types.TradeIdea{}, &ClaimedError{ID: id}
	}
	for _, allowed := range transitions[t.Status] {
		if allowed == to {
			t.Status = to
			return *t, nil
		}
	}
	return types.TradeIdea{}, &TransitionError{ID: id, From: t.Status, To: to}
}

// Approve moves a pending idea to approved.
func (b *Book) Approve(id string) (types.TradeIdea, error) {
	return b.transition(id, types.StatusApproved)
}

// Reject moves a pending idea to rejected.
func (b *Book) Reject(id string) (types.TradeIdea, error) {
	return b.transition(id, types.StatusRejected)
}

// Cancel cancels a pending or approved idea.
func (b *Book) Cancel(id string) (types.TradeIdea, error) {
	return b.transition(id, types.StatusCancelled)
}

// MarkExecuted moves an approved idea to executed.
func (b *Book) MarkExecuted(id string) (types.TradeIdea, error) {
	return b.transition(id, types.StatusExecuted)
}

// Claim reserves an approved idea for order submission. The status check
// and the reservation happen under one lock, so two concurrent executions
// of the same idea can never both pass; the loser gets a ClaimedError.
// Release the claim after MarkExecuted, or after an order failure to leave
// the idea approved for a retry.
func (b *Book) Claim(id string) (types.TradeIdea, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.ideas[id]
	if !ok {
		return types.TradeIdea{}, &NotFoundError{ID: id}
	}
	if _, held := b.claimed[id]; held {
		return types.TradeIdea{}, &ClaimedError{ID: id}
	}
	if t.Status != types.StatusApproved {
		return types.TradeIdea{}, &TransitionError{ID: id, From: t.Status, To: types.StatusExecuted}
	}
	b.claimed[id] = struct{}{}
	return *t, nil
}

// Release drops an execution claim.
func (b *Book) Release(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.claimed, id)
}
