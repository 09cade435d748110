// Package emnr evaluates the Entry/Exit/Strong/Weak condition lists of a
// rule set against a generated fact map.
package emnr

import (
	"fmt"

	"trade-advisor/internal/facts"
	"trade-advisor/internal/rules"
	"trade-advisor/internal/types"
)

// UnknownFactError reports a rule-set condition naming a fact that was not
// producible this cycle. This is a configuration defect: it must surface,
// never silently evaluate to false.
type UnknownFactError struct {
	Fact string
	List string
}

func (e *UnknownFactError) Error() string {
	return fmt.Sprintf("condition list %q references fact %q which is not available", e.List, e.Fact)
}

// Evaluate ANDs each condition list over the fact map. An empty list leaves
// its flag false: nothing confirmed means no signal. Deterministic, no side
// effects.
func Evaluate(f facts.Facts, c rules.Conditions) (types.EMNRFlags, error) {
	var flags types.EMNRFlags
	var err error

	if flags.Entry, err = all(f, c.Entry, "entry"); err != nil {
		return types.EMNRFlags{}, err
	}
	if flags.Exit, err = all(f, c.Exit, "exit"); err != nil {
		return types.EMNRFlags{}, err
	}
	if flags.Strong, err = all(f, c.Strong, "strong"); err != nil {
		return types.EMNRFlags{}, err
	}
	if flags.Weak, err = all(f, c.Weak, "weak"); err != nil {
		return types.EMNRFlags{}, err
	}
	return flags, nil
}

func all(f facts.Facts, names []string, list string) (bool, error) {
	if len(names) == 0 {
		return false, nil
	}
	result := true
	for _, name := range names {
		v, ok := f[name]
		if !ok {
			return false, &UnknownFactError{Fact: name, List: list}
		}
		result = result && v
	}
	return result, nil
}
