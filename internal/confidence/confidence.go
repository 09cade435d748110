// Package confidence combines EMNR flags, the alignment bit and the news
// penalty into a single 0-100 score.
package confidence

import "trade-advisor/internal/types"

// Scoring weights. Policy constants: additive, order-independent, applied
// before the final clamp.
const (
	WeightEntry  = 30
	WeightStrong = 25
	WeightWeak   = -15
	WeightExit   = -40
	WeightAlign  = 10
)

// Action thresholds, shared with the planner.
const (
	ThresholdMedium = 60
	ThresholdHigh   = 75
)

// Score computes the confidence score. newsPenalty is expected to be <= 0
// (0 when no penalty provider is wired). The result is clamped to [0, 100].
func Score(flags types.EMNRFlags, aligned bool, newsPenalty int) int {
	score := 0
	if flags.Entry {
		score += WeightEntry
	}
	if flags.Strong {
		score += WeightStrong
	}
	if flags.Weak {
		score += WeightWeak
	}
	if flags.Exit {
		score += WeightExit
	}
	if aligned {
		score += WeightAlign
	}
	score += newsPenalty

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Level buckets a score into the thresholds the planner acts on.
func Level(score int) string {
	switch {
	case score >= ThresholdHigh:
		return "HIGH"
	case score >= ThresholdMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
