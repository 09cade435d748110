// Package mt5 talks to the MetaTrader terminal bridge over HTTP. The bridge
// exposes synchronous query and order-submission endpoints; this client
// wraps them with bounded timeouts and maps failures to broker.BridgeError.
package mt5

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"trade-advisor/internal/api"
	"trade-advisor/internal/broker"
	"trade-advisor/internal/interfaces"
	"trade-advisor/internal/types"
)

// Params configures the bridge connection.
type Params struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MT5 is the HTTP bridge client.
type MT5 struct {
	client  *api.Client
	timeout time.Duration
}

var _ interfaces.Broker = (*MT5)(nil)

// New creates a bridge client. Timeout defaults to 10s.
func New(p Params) *MT5 {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts := []api.ClientOption{
		api.WithBaseURL(p.BaseURL),
		api.WithTimeout(timeout),
	}
	if p.APIKey != "" {
		opts = append(opts, api.WithHeader("X-API-Key", p.APIKey))
	}
	return &MT5{client: api.NewClient(opts...), timeout: timeout}
}

type barDTO struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"tick_volume"`
}

// FetchBars fetches the most recent count bars, oldest-first.
func (m *MT5) FetchBars(ctx context.Context, symbol, timeframe string, count int) ([]types.Bar, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	path := fmt.Sprintf("/bars?symbol=%s&timeframe=%s&count=%d",
		url.QueryEscape(symbol), url.QueryEscape(timeframe), count)
	var dtos []barDTO
	if err := m.client.GetJSON(ctx, path, &dtos); err != nil {
		return nil, &broker.BridgeError{Op: "fetch bars", Err: err}
	}

	bars := make([]types.Bar, len(dtos))
	for i, d := range dtos {
		bars[i] = types.Bar{
			Ts:     d.Time,
			Open:   d.Open,
			High:   d.High,
			Low:    d.Low,
			Close:  d.Close,
			Volume: d.Volume,
		}
	}
	return bars, nil
}

// AccountInfo fetches the account balance snapshot.
func (m *MT5) AccountInfo(ctx context.Context) (types.AccountInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var info types.AccountInfo
	if err := m.client.GetJSON(ctx, "/account", &info); err != nil {
		return types.AccountInfo{}, &broker.BridgeError{Op: "account info", Err: err}
	}
	return info, nil
}

// SymbolInfo fetches contract metadata for a symbol.
func (m *MT5) SymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var info types.SymbolInfo
	if err := m.client.GetJSON(ctx, "/symbols/"+url.PathEscape(symbol), &info); err != nil {
		return types.SymbolInfo{}, &broker.BridgeError{Op: "symbol info", Err: err}
	}
	return info, nil
}

// PlaceOrder submits a market order with stop and target attached.
func (m *MT5) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var resp types.OrderResp
	if err := m.client.PostJSON(ctx, "/orders", req, &resp); err != nil {
		return types.OrderResp{}, &broker.BridgeError{Op: "place order", Err: err}
	}
	return resp, nil
}

// Start is a no-op: the bridge is stateless from the client's side.
func (m *MT5) Start(ctx context.Context, symbols []string) error { return nil }

// Stop is a no-op.
func (m *MT5) Stop(ctx context.Context) {}
