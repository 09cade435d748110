package engine

import "time"

// CurrentSession maps a wall-clock instant to the trading session. Bands
// overlap (London/NewYork, Tokyo/London); the earlier session wins during
// the overlap, matching how the desk labels it.
func CurrentSession(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= 9 && hour < 17:
		return "London"
	case hour >= 15 && hour < 23:
		return "NewYork"
	case hour >= 2 && hour < 10:
		return "Tokyo"
	default:
		return "Sydney"
	}
}
