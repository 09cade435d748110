package sim

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"trade-advisor/internal/types"
)

func orderReq() types.OrderReq {
	return types.OrderReq{
		Symbol:     "EURUSD",
		Direction:  types.Long,
		Volume:     0.5,
		StopLoss:   1.0970,
		TakeProfit: 1.1060,
	}
}

func pinnedClock() func() time.Time {
	ts := time.Date(2025, 6, 2, 12, 0, 30, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestFetchBarsDeterministic(t *testing.T) {
	s := New(WithClock(pinnedClock()))
	ctx := context.Background()

	a, err := s.FetchBars(ctx, "EURUSD", "H1", 100)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := s.FetchBars(ctx, "EURUSD", "H1", 100)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Expected identical series for the same symbol and minute")
	}

	other, _ := s.FetchBars(ctx, "GBPUSD", "H1", 100)
	if reflect.DeepEqual(a, other) {
		t.Error("Expected different symbols to produce different series")
	}
}

func TestFetchBarsShape(t *testing.T) {
	s := New(WithClock(pinnedClock()))
	bars, err := s.FetchBars(context.Background(), "EURUSD", "H1", 50)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(bars) != 50 {
		t.Fatalf("Expected 50 bars, got %d", len(bars))
	}
	for i, b := range bars {
		if b.High < math.Max(b.Open, b.Close) || b.Low > math.Min(b.Open, b.Close) {
			t.Fatalf("Bar %d violates OHLC ordering: %+v", i, b)
		}
		if i > 0 && b.Ts-bars[i-1].Ts != 3600 {
			t.Fatalf("Expected 3600s spacing on H1, got %d", b.Ts-bars[i-1].Ts)
		}
	}
	// Continuity: each bar opens at the previous close.
	if bars[1].Open != bars[0].Close {
		t.Errorf("Expected continuous walk, got open %f after close %f", bars[1].Open, bars[0].Close)
	}
}

func TestAccountAndOrders(t *testing.T) {
	s := New(WithBalance(25_000))
	ctx := context.Background()

	acct, err := s.AccountInfo(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if acct.Balance != 25_000 || acct.Currency != "USD" {
		t.Errorf("Expected 25000 USD, got %+v", acct)
	}

	first, _ := s.PlaceOrder(ctx, orderReq())
	second, _ := s.PlaceOrder(ctx, orderReq())
	if first.OrderID != "SIM-000001" || second.OrderID != "SIM-000002" {
		t.Errorf("Expected sequential order IDs, got %s then %s", first.OrderID, second.OrderID)
	}
	if first.Status != "FILLED" {
		t.Errorf("Expected FILLED, got %s", first.Status)
	}
}
