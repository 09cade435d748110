package emnr

import (
	"errors"
	"testing"

	"trade-advisor/internal/facts"
	"trade-advisor/internal/rules"
)

func TestEvaluateAllLists(t *testing.T) {
	f := facts.Facts{
		facts.MAFastGtSlow:  true,
		facts.RSINeutral:    true,
		facts.RSIOverbought: false,
		facts.MACDHistPos:   true,
		facts.LongUpperWick: false,
	}
	c := rules.Conditions{
		Entry:  []string{facts.MAFastGtSlow, facts.RSINeutral},
		Exit:   []string{facts.RSIOverbought},
		Strong: []string{facts.MACDHistPos},
		Weak:   []string{facts.LongUpperWick},
	}

	flags, err := Evaluate(f, c)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !flags.Entry {
		t.Error("Expected entry true when all entry facts hold")
	}
	if flags.Exit {
		t.Error("Expected exit false")
	}
	if !flags.Strong {
		t.Error("Expected strong true")
	}
	if flags.Weak {
		t.Error("Expected weak false")
	}
}

func TestEvaluateANDSemantics(t *testing.T) {
	f := facts.Facts{
		facts.MAFastGtSlow: true,
		facts.RSINeutral:   false,
	}
	c := rules.Conditions{Entry: []string{facts.MAFastGtSlow, facts.RSINeutral}}

	flags, err := Evaluate(f, c)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if flags.Entry {
		t.Error("Expected entry false when one fact fails")
	}
}

func TestEvaluateEmptyListIsFalse(t *testing.T) {
	flags, err := Evaluate(facts.Facts{facts.MAFastGtSlow: true}, rules.Conditions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if flags.Entry || flags.Exit || flags.Strong || flags.Weak {
		t.Errorf("Expected all flags false for empty condition lists, got %+v", flags)
	}
}

func TestEvaluateUnknownFactFailsLoudly(t *testing.T) {
	f := facts.Facts{facts.MAFastGtSlow: true}
	c := rules.Conditions{Strong: []string{facts.MACDHistPos}}

	_, err := Evaluate(f, c)
	if err == nil {
		t.Fatal("Expected error for fact missing from the map")
	}
	var unknown *UnknownFactError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownFactError, got %T", err)
	}
	if unknown.Fact != facts.MACDHistPos || unknown.List != "strong" {
		t.Errorf("Expected fact=%s list=strong, got fact=%s list=%s", facts.MACDHistPos, unknown.Fact, unknown.List)
	}
}
