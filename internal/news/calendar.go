// Package news downgrades confidence around scheduled economic releases.
// A scraper pulls the public economic calendar, and the service converts
// upcoming high-impact events into a negative confidence penalty.
package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"trade-advisor/internal/logger"
)

// Impact is the calendar's severity rating for a release.
type Impact string

const (
	ImpactHigh   Impact = "HIGH"
	ImpactMedium Impact = "MEDIUM"
	ImpactLow    Impact = "LOW"
)

// Event is one scheduled economic release.
type Event struct {
	Time     time.Time
	Currency string
	Impact   Impact
	Title    string
}

// CalendarSelectors defines CSS selectors for extracting calendar rows.
type CalendarSelectors struct {
	Row      string
	Time     string
	Currency string
	Impact   string
	Title    string
}

// CalendarSource defines a calendar page and how to parse it.
type CalendarSource struct {
	Name      string
	URL       string
	Selectors CalendarSelectors
}

// DefaultSource returns the ForexFactory-style calendar layout.
func DefaultSource() CalendarSource {
	return CalendarSource{
		Name: "forexfactory",
		URL:  "https://www.forexfactory.com/calendar",
		Selectors: CalendarSelectors{
			Row:      "tr.calendar__row",
			Time:     "td.calendar__time",
			Currency: "td.calendar__currency",
			Impact:   "td.calendar__impact span",
			Title:    "td.calendar__event",
		},
	}
}

// Scraper fetches the day's events from a calendar source.
type Scraper struct {
	source  CalendarSource
	timeout time.Duration
}

// NewScraper creates a scraper for the given source.
func NewScraper(source CalendarSource, timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{source: source, timeout: timeout}
}

// Scrape fetches today's events. Rows whose time cell cannot be parsed
// (all-day entries, tentative releases) are skipped.
func (s *Scraper) Scrape(ctx context.Context, day time.Time) ([]Event, error) {
	events := []Event{}

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(s.source.URL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)

	c.SetRequestTimeout(s.timeout)

	// Set user agent to avoid being blocked
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(s.source.Selectors.Row, func(e *colly.HTMLElement) {
		ev, ok := parseRow(e.DOM, s.source.Selectors, day)
		if !ok {
			return
		}
		events = append(events, ev)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Calendar scraping error", err, "source", s.source.Name, "url", r.Request.URL.String())
	})

	if err := c.Visit(s.source.URL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", s.source.URL, err)
	}
	c.Wait()

	logger.Info(ctx, "Calendar scraping completed", "source", s.source.Name, "events", len(events))
	return events, nil
}

// parseRow extracts one event from a calendar table row.
func parseRow(row *goquery.Selection, sel CalendarSelectors, day time.Time) (Event, bool) {
	currency := strings.ToUpper(strings.TrimSpace(row.Find(sel.Currency).Text()))
	if currency == "" {
		return Event{}, false
	}

	title := strings.TrimSpace(row.Find(sel.Title).Text())
	if title == "" {
		return Event{}, false
	}

	ts, ok := parseClock(strings.TrimSpace(row.Find(sel.Time).Text()), day)
	if !ok {
		return Event{}, false
	}

	impactCell := row.Find(sel.Impact)
	impact := classifyImpact(impactCell.Text(), impactCell.AttrOr("class", ""))

	return Event{
		Time:     ts,
		Currency: currency,
		Impact:   impact,
		Title:    title,
	}, true
}

// parseClock parses cell text like "8:30am" or "14:30" onto the given day.
func parseClock(text string, day time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"3:04pm", "3:04PM", "15:04"} {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				t.Hour(), t.Minute(), 0, 0, day.Location()), true
		}
	}
	return time.Time{}, false
}

// classifyImpact maps the cell text or icon class to an impact level.
func classifyImpact(text, class string) Impact {
	combined := strings.ToLower(text + " " + class)
	switch {
	case strings.Contains(combined, "high") || strings.Contains(combined, "red"):
		return ImpactHigh
	case strings.Contains(combined, "medium") || strings.Contains(combined, "ora"):
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func getDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
