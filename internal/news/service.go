package news

import (
	"context"
	"strings"
	"sync"
	"time"

	"trade-advisor/internal/interfaces"
	"trade-advisor/internal/logger"
)

// Penalty applied when a matching release falls inside the embargo window.
const (
	penaltyHigh   = -30
	penaltyMedium = -15
)

// Service provides news embargo penalties with caching. The calendar is
// scraped at most once per cache period; penalties are computed from the
// cached events on every call.
type Service struct {
	scraper *calendarScraper
	cache   *eventCache
	now     func() time.Time
}

type calendarScraper struct {
	inner *Scraper
}

func (c *calendarScraper) fetch(ctx context.Context, day time.Time) ([]Event, error) {
	return c.inner.Scrape(ctx, day)
}

// ServiceConfig configures the news penalty service.
type ServiceConfig struct {
	Source         CalendarSource
	CacheDuration  time.Duration
	ScraperTimeout time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Source:         DefaultSource(),
		CacheDuration:  30 * time.Minute,
		ScraperTimeout: 30 * time.Second,
	}
}

// eventCache stores the scraped calendar temporarily.
type eventCache struct {
	mu        sync.RWMutex
	events    []Event
	timestamp time.Time
	ttl       time.Duration
	now       func() time.Time
}

func (c *eventCache) get() ([]Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.timestamp.IsZero() || c.now().Sub(c.timestamp) > c.ttl {
		return nil, false
	}
	return c.events, true
}

func (c *eventCache) set(events []Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
	c.timestamp = c.now()
}

// NewService creates a news penalty service.
func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	s := &Service{
		scraper: &calendarScraper{inner: NewScraper(cfg.Source, cfg.ScraperTimeout)},
		now:     time.Now,
	}
	s.cache = &eventCache{ttl: cfg.CacheDuration, now: s.now}
	return s
}

var _ interfaces.NewsPenalty = (*Service)(nil)

// Penalty returns the confidence penalty for a symbol. A failed scrape is
// logged and treated as no penalty rather than blocking the evaluation.
func (s *Service) Penalty(ctx context.Context, symbol string, embargoMinutes int) (int, error) {
	if embargoMinutes <= 0 {
		return 0, nil
	}

	events, ok := s.cache.get()
	if !ok {
		fresh, err := s.scraper.fetch(ctx, s.now().UTC())
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to fetch calendar, assuming no embargo", err, "symbol", symbol)
			return 0, nil
		}
		s.cache.set(fresh)
		events = fresh
	}

	return penaltyFor(events, symbol, embargoMinutes, s.now().UTC()), nil
}

// penaltyFor computes the worst penalty among events whose currency matches
// the symbol and whose release time is within the embargo window on either
// side of now.
func penaltyFor(events []Event, symbol string, embargoMinutes int, now time.Time) int {
	currencies := symbolCurrencies(symbol)
	window := time.Duration(embargoMinutes) * time.Minute

	worst := 0
	for _, ev := range events {
		if !currencies[ev.Currency] {
			continue
		}
		delta := ev.Time.Sub(now)
		if delta < -window || delta > window {
			continue
		}
		p := 0
		switch ev.Impact {
		case ImpactHigh:
			p = penaltyHigh
		case ImpactMedium:
			p = penaltyMedium
		}
		if p < worst {
			worst = p
		}
	}
	return worst
}

// symbolCurrencies splits a pair like EURUSD or XAUUSD into its legs. Other
// symbol shapes match on the full name.
func symbolCurrencies(symbol string) map[string]bool {
	symbol = strings.ToUpper(symbol)
	out := map[string]bool{symbol: true}
	if len(symbol) == 6 {
		out[symbol[:3]] = true
		out[symbol[3:]] = true
	}
	return out
}

// NoopPenalty always returns zero. Used when news checks are disabled.
type NoopPenalty struct{}

func (NoopPenalty) Penalty(ctx context.Context, symbol string, embargoMinutes int) (int, error) {
	return 0, nil
}
