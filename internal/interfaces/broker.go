package interfaces

import (
	"context"

	"trade-advisor/internal/types"
)

// Broker is the market-data/broker terminal bridge. Bars come back
// oldest-first. Every call may fail or time out; callers wrap with bounded
// timeouts.
type Broker interface {
	FetchBars(ctx context.Context, symbol, timeframe string, count int) ([]types.Bar, error)
	AccountInfo(ctx context.Context) (types.AccountInfo, error)
	SymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error)
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
	Start(ctx context.Context, symbols []string) error
	Stop(ctx context.Context)
}
