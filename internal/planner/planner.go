// Package planner maps a confidence score and the reward:risk verdict to
// the cycle's execution plan. Stateless: the plan is recomputed fresh every
// cycle.
package planner

import (
	"trade-advisor/internal/confidence"
	"trade-advisor/internal/types"
)

// pendingRiskCap bounds the reduced risk used for pending-only cycles.
const pendingRiskCap = 0.02

// Plan decides the action for this cycle.
//
//	confidence < 60              -> observe, no risk
//	60 <= confidence < 75        -> pending orders only, half risk
//	confidence >= 75, RR not met -> wait for a better setup
//	confidence >= 75, RR met     -> open or scale at full risk
func Plan(score int, rrOK bool, defaultRiskPct float64) types.ExecutionPlan {
	if score < confidence.ThresholdMedium {
		return types.ExecutionPlan{Action: types.ActionObserve, RiskPct: 0}
	}
	if score < confidence.ThresholdHigh {
		reduced := defaultRiskPct / 2
		if reduced > pendingRiskCap {
			reduced = pendingRiskCap
		}
		return types.ExecutionPlan{Action: types.ActionPendingOnly, RiskPct: reduced}
	}
	if !rrOK {
		return types.ExecutionPlan{Action: types.ActionWaitRR, RiskPct: 0}
	}
	return types.ExecutionPlan{Action: types.ActionOpenOrScale, RiskPct: defaultRiskPct}
}

// Describe returns the operator-facing explanation for an action.
func Describe(a types.Action) string {
	switch a {
	case types.ActionObserve:
		return "confidence too low, observing only"
	case types.ActionPendingOnly:
		return "medium confidence, pending orders allowed at reduced risk"
	case types.ActionWaitRR:
		return "high confidence but reward:risk below minimum, waiting"
	case types.ActionOpenOrScale:
		return "high confidence and reward:risk met, ready to execute"
	default:
		return "unknown action"
	}
}
