// Package sim is a synthetic broker for DRY_RUN operation and tests. Bars
// are generated from a per-symbol seed so repeated fetches within a cycle
// are reproducible; orders are accepted and echoed back without touching
// any real terminal.
package sim

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"trade-advisor/internal/interfaces"
	"trade-advisor/internal/types"
)

// Sim is the synthetic broker.
type Sim struct {
	balance  float64
	now      func() time.Time
	orderSeq atomic.Int64
}

var _ interfaces.Broker = (*Sim)(nil)

// Option configures the simulator.
type Option func(*Sim)

// WithBalance overrides the simulated account balance.
func WithBalance(balance float64) Option {
	return func(s *Sim) { s.balance = balance }
}

// WithClock pins the bar time base, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sim) { s.now = now }
}

// New creates a simulator with a 10,000 unit balance.
func New(opts ...Option) *Sim {
	s := &Sim{
		balance: 10_000,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchBars generates count bars ending at the current minute. The walk is
// seeded from the symbol, so two fetches with the same symbol, count and
// minute return identical series.
func (s *Sim) FetchBars(ctx context.Context, symbol, timeframe string, count int) ([]types.Bar, error) {
	anchor := s.now().UTC().Truncate(time.Minute)
	step := timeframeSeconds(timeframe)

	h := fnv.New64a()
	h.Write([]byte(symbol))
	h.Write([]byte(timeframe))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	base := 1.0 + float64(rng.Intn(1000))/500.0
	price := base
	bars := make([]types.Bar, 0, count)
	for i := count; i > 0; i-- {
		drift := (rng.Float64() - 0.48) * base * 0.002
		open := price
		close := price + drift
		high := math.Max(open, close) + rng.Float64()*base*0.001
		low := math.Min(open, close) - rng.Float64()*base*0.001
		bars = append(bars, types.Bar{
			Ts:     anchor.Unix() - int64(i*step),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 100 + rng.Float64()*900,
		})
		price = close
	}
	return bars, nil
}

// AccountInfo returns the simulated balance.
func (s *Sim) AccountInfo(ctx context.Context) (types.AccountInfo, error) {
	return types.AccountInfo{Balance: s.balance, Currency: "USD"}, nil
}

// SymbolInfo returns forex-style contract metadata.
func (s *Sim) SymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error) {
	return types.SymbolInfo{
		ContractSize: 100_000,
		TickValue:    1.0,
		TickSize:     0.0001,
		MinVolume:    0.01,
		VolumeStep:   0.01,
	}, nil
}

// PlaceOrder accepts every order and returns a synthetic order ID.
func (s *Sim) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	id := s.orderSeq.Add(1)
	return types.OrderResp{
		OrderID: fmt.Sprintf("SIM-%06d", id),
		Status:  "FILLED",
	}, nil
}

// Start is a no-op.
func (s *Sim) Start(ctx context.Context, symbols []string) error { return nil }

// Stop is a no-op.
func (s *Sim) Stop(ctx context.Context) {}

func timeframeSeconds(tf string) int {
	switch tf {
	case "M1":
		return 60
	case "M5":
		return 300
	case "M15":
		return 900
	case "M30":
		return 1800
	case "H1":
		return 3600
	case "H4":
		return 14400
	case "D1":
		return 86400
	default:
		return 3600
	}
}
