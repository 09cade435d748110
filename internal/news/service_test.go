package news

import (
	"testing"
	"time"
)

func TestSymbolCurrencies(t *testing.T) {
	c := symbolCurrencies("EURUSD")
	for _, want := range []string{"EUR", "USD", "EURUSD"} {
		if !c[want] {
			t.Errorf("Expected %s to match EURUSD", want)
		}
	}
	if c["GBP"] {
		t.Error("Expected GBP to not match EURUSD")
	}

	// Non-pair symbols match on the full name only.
	c = symbolCurrencies("SPX500")
	if !c["SPX"] || !c["500"] {
		t.Error("Expected 6-char symbol split into legs")
	}
	c = symbolCurrencies("BTCUSDT")
	if len(c) != 1 || !c["BTCUSDT"] {
		t.Errorf("Expected 7-char symbol to match whole, got %v", c)
	}
}

func TestPenaltyForWindowAndImpact(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Time: now.Add(10 * time.Minute), Currency: "USD", Impact: ImpactHigh, Title: "NFP"},
		{Time: now.Add(20 * time.Minute), Currency: "EUR", Impact: ImpactMedium, Title: "PMI"},
		{Time: now.Add(2 * time.Hour), Currency: "USD", Impact: ImpactHigh, Title: "far away"},
		{Time: now.Add(5 * time.Minute), Currency: "JPY", Impact: ImpactHigh, Title: "other currency"},
		{Time: now.Add(15 * time.Minute), Currency: "USD", Impact: ImpactLow, Title: "low impact"},
	}

	// Worst matching penalty wins: the high-impact USD release.
	if got := penaltyFor(events, "EURUSD", 30, now); got != -30 {
		t.Errorf("Expected -30, got %d", got)
	}

	// Only the medium EUR release within a tight window.
	if got := penaltyFor(events, "EURGBP", 30, now); got != -15 {
		t.Errorf("Expected -15, got %d", got)
	}

	// Nothing in window.
	if got := penaltyFor(events, "GBPJPY", 2, now); got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}

	// A release just past still counts inside the embargo window.
	past := []Event{{Time: now.Add(-10 * time.Minute), Currency: "USD", Impact: ImpactHigh}}
	if got := penaltyFor(past, "EURUSD", 30, now); got != -30 {
		t.Errorf("Expected -30 for recent release, got %d", got)
	}
	if got := penaltyFor(past, "EURUSD", 5, now); got != 0 {
		t.Errorf("Expected 0 outside the window, got %d", got)
	}
}

func TestClassifyImpact(t *testing.T) {
	cases := []struct {
		text, class string
		want        Impact
	}{
		{"High Impact Expected", "", ImpactHigh},
		{"", "icon icon--ff-impact-red", ImpactHigh},
		{"Medium Impact Expected", "", ImpactMedium},
		{"", "icon icon--ff-impact-ora", ImpactMedium},
		{"Low Impact Expected", "", ImpactLow},
		{"", "", ImpactLow},
	}
	for _, tc := range cases {
		if got := classifyImpact(tc.text, tc.class); got != tc.want {
			t.Errorf("classifyImpact(%q, %q): expected %s, got %s", tc.text, tc.class, tc.want, got)
		}
	}
}

func TestParseClock(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	ts, ok := parseClock("8:30am", day)
	if !ok || ts.Hour() != 8 || ts.Minute() != 30 {
		t.Errorf("Expected 08:30, got %v ok=%v", ts, ok)
	}

	ts, ok = parseClock("2:00pm", day)
	if !ok || ts.Hour() != 14 {
		t.Errorf("Expected 14:00, got %v ok=%v", ts, ok)
	}

	ts, ok = parseClock("14:30", day)
	if !ok || ts.Hour() != 14 || ts.Minute() != 30 {
		t.Errorf("Expected 14:30, got %v ok=%v", ts, ok)
	}

	if _, ok := parseClock("All Day", day); ok {
		t.Error("Expected all-day entries to be skipped")
	}
	if _, ok := parseClock("", day); ok {
		t.Error("Expected empty time to be skipped")
	}
}

func TestEventCacheExpiry(t *testing.T) {
	current := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	cache := &eventCache{ttl: time.Hour, now: func() time.Time { return current }}

	if _, ok := cache.get(); ok {
		t.Error("Expected empty cache to miss")
	}

	cache.set([]Event{{Currency: "USD"}})
	events, ok := cache.get()
	if !ok || len(events) != 1 {
		t.Fatalf("Expected cache hit with 1 event, got ok=%v len=%d", ok, len(events))
	}

	// Still fresh at the edge of the TTL.
	current = current.Add(time.Hour)
	if _, ok := cache.get(); !ok {
		t.Error("Expected cache hit at the TTL boundary")
	}

	current = current.Add(time.Second)
	if _, ok := cache.get(); ok {
		t.Error("Expected expired cache to miss")
	}
}

func TestNoopPenalty(t *testing.T) {
	p, err := NoopPenalty{}.Penalty(nil, "EURUSD", 30)
	if err != nil || p != 0 {
		t.Errorf("Expected (0, nil), got (%d, %v)", p, err)
	}
}
