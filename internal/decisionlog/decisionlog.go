// Package decisionlog persists one entry per evaluation cycle so decisions
// can be audited after the fact. Two sinks are provided: JSON lines on disk
// and SQLite.
package decisionlog

import (
	"context"

	"trade-advisor/internal/types"
)

// Entry is the audit record written after every evaluation, including
// cycles that produced no trade idea.
type Entry struct {
	Time       string             `json:"time"`
	Symbol     string             `json:"symbol"`
	Timeframe  string             `json:"timeframe"`
	Session    string             `json:"session,omitempty"`
	Confidence int                `json:"confidence"`
	Action     types.Action       `json:"action"`
	Flags      types.EMNRFlags    `json:"flags"`
	Indicators types.IndicatorSet `json:"indicators"`
	IdeaID     string             `json:"idea_id,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// Sink is the append-only decision store.
type Sink interface {
	Append(ctx context.Context, e Entry) error
	Close() error
}

// Noop discards every entry. Used when decision logging is disabled.
type Noop struct{}

func (Noop) Append(ctx context.Context, e Entry) error { return nil }
func (Noop) Close() error                              { return nil }
