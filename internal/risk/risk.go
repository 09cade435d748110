// Package risk derives stop-loss, take-profit, reward:risk ratio and
// position volume from the current price, a volatility distance and the
// account/contract constraints.
package risk

import (
	"errors"
	"math"

	"trade-advisor/internal/types"
)

// ErrNoLevels reports that no volatility measure was available, so no
// stop/target can be placed. Callers degrade to RewardRisk = 0, which the
// planner turns into a non-executing action.
var ErrNoLevels = errors.New("no volatility measure available, cannot derive levels")

// Input collects everything the sizer needs for one calculation.
type Input struct {
	Entry         float64
	ATR           float64
	ATRMultiplier float64
	RRTarget      float64
	Direction     types.Direction
	Balance       float64
	RiskPct       float64 // fraction of balance risked, e.g. 0.01
	Symbol        types.SymbolInfo
}

// Levels computes the full risk figures. Returns ErrNoLevels (with a zeroed
// sentinel whose HasLevels is false) when the ATR is missing or non-positive.
func Levels(in Input) (types.RiskFigures, error) {
	if math.IsNaN(in.ATR) || in.ATR <= 0 {
		return types.RiskFigures{}, ErrNoLevels
	}

	mult := in.ATRMultiplier
	if mult <= 0 {
		mult = 1.5
	}
	rrTarget := in.RRTarget
	if rrTarget <= 0 {
		rrTarget = 2.0
	}

	distance := in.ATR * mult
	var stop, target float64
	if in.Direction == types.Short {
		stop = in.Entry + distance
		target = in.Entry - distance*rrTarget
	} else {
		stop = in.Entry - distance
		target = in.Entry + distance*rrTarget
	}

	reward := math.Abs(target - in.Entry)
	riskDist := math.Abs(in.Entry - stop)
	rr := 0.0
	if riskDist > 0 {
		rr = reward / riskDist
	}

	return types.RiskFigures{
		StopLoss:   stop,
		TakeProfit: target,
		RewardRisk: rr,
		Volume:     volume(riskDist, in),
		HasLevels:  true,
	}, nil
}

// volume sizes the position so the stop-loss distance costs RiskPct of the
// balance, then snaps to the contract's volume step and floors at the
// minimum volume.
func volume(riskDist float64, in Input) float64 {
	sym := in.Symbol
	minVol := sym.MinVolume
	if minVol <= 0 {
		minVol = 0.01
	}
	step := sym.VolumeStep
	if step <= 0 {
		step = minVol
	}

	vol := minVol
	if sym.TickSize > 0 && sym.TickValue > 0 && riskDist > 0 {
		riskAmount := in.Balance * in.RiskPct
		ticks := riskDist / sym.TickSize
		riskPerLot := ticks * sym.TickValue
		if riskPerLot > 0 {
			vol = riskAmount / riskPerLot
		}
	}

	vol = math.Round(vol/step) * step
	if vol < minVol {
		vol = minVol
	}
	return vol
}
