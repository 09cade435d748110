package interfaces

import "context"

// NewsPenalty supplies the news-embargo confidence penalty for a symbol.
// The returned value is always <= 0; implementations that cannot determine
// a penalty return 0.
type NewsPenalty interface {
	Penalty(ctx context.Context, symbol string, embargoMinutes int) (int, error)
}
