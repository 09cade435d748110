package rules

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"trade-advisor/internal/facts"
	"trade-advisor/internal/types"
)

func TestDefaultIsValid(t *testing.T) {
	rs := Default("EURUSD", "H1")
	if errs := Validate(rs); len(errs) > 0 {
		t.Errorf("Expected default rule set to validate, got %v", errs)
	}
	if rs.Strategy.Direction != types.Long {
		t.Errorf("Expected long default direction, got %s", rs.Strategy.Direction)
	}
}

func TestValidateCatchesEverything(t *testing.T) {
	rs := &RuleSet{
		Timeframe: "H7",
		Sessions:  []string{"Mars"},
		Conditions: Conditions{
			Entry: []string{"made_up_fact"},
		},
		Strategy: Strategy{
			Direction:          "sideways",
			MinRR:              0.5,
			NewsEmbargoMinutes: -1,
		},
	}
	rs.Indicators.MA.Kind = "wma"

	errs := Validate(rs)
	wantFragments := []string{
		"symbol is required",
		"invalid timeframe",
		"direction must be",
		"min_rr must be",
		"news_embargo_minutes",
		"invalid session",
		"ma.kind",
		"unknown fact",
	}
	for _, frag := range wantFragments {
		found := false
		for _, e := range errs {
			if strings.Contains(e, frag) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected a validation error containing %q, got %v", frag, errs)
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "strategies"), filepath.Join(dir, "profiles"))

	rs := Default("EURUSD", "H1")
	rs.Strategy.MinRR = 2.5
	if err := store.SaveRuleSet(rs); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, err := store.LoadRuleSet("EURUSD", "H1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rs, got) {
		t.Errorf("Round trip mismatch:\nsaved:  %+v\nloaded: %+v", rs, got)
	}
}

func TestFileStoreMissingRuleSet(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "strategies"), filepath.Join(dir, "profiles"))

	_, err := store.LoadRuleSet("GBPUSD", "M15")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if notFound.Symbol != "GBPUSD" || notFound.Timeframe != "M15" {
		t.Errorf("Expected GBPUSD M15 in error, got %+v", notFound)
	}
	// remediation hint names the expected file
	if !strings.Contains(notFound.Error(), "GBPUSD_M15.json") {
		t.Errorf("Expected remediation hint, got %q", notFound.Error())
	}
}

func TestFileStoreRejectsInvalidOnSave(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "strategies"), filepath.Join(dir, "profiles"))

	rs := Default("EURUSD", "H1")
	rs.Conditions.Entry = []string{"nonsense"}
	if err := store.SaveRuleSet(rs); err == nil {
		t.Error("Expected save of invalid rule set to fail")
	}
}

func TestFileStoreList(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "strategies"), filepath.Join(dir, "profiles"))

	for _, pair := range [][2]string{{"XAU_USD", "H1"}, {"EURUSD", "M15"}, {"EURUSD", "H1"}} {
		if err := store.SaveRuleSet(Default(pair[0], pair[1])); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	got, err := store.ListRuleSets()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := [][2]string{{"EURUSD", "H1"}, {"EURUSD", "M15"}, {"XAU_USD", "H1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestFileStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "strategies"), filepath.Join(dir, "profiles"))

	if err := store.SaveRuleSet(Default("EURUSD", "H1")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	removed, err := store.DeleteRuleSet("EURUSD", "H1")
	if err != nil || !removed {
		t.Fatalf("Expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = store.DeleteRuleSet("EURUSD", "H1")
	if err != nil || removed {
		t.Errorf("Expected idempotent delete, got removed=%v err=%v", removed, err)
	}
}

func TestProfileRoundTripAndOptionality(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "strategies"), filepath.Join(dir, "profiles"))

	// Missing profile is not an error.
	p, err := store.LoadProfile("EURUSD")
	if err != nil || p != nil {
		t.Fatalf("Expected (nil, nil) for missing profile, got %+v, %v", p, err)
	}

	saved := &Profile{
		Symbol:         "EURUSD",
		BestSessions:   []string{"London", "NewYork"},
		BestTimeframes: []string{"H1", "H4"},
		Style:          ProfileStyle{Bias: "trend", RRTarget: 2.0, MaxRiskPct: 0.01},
		Management:     ProfileManagement{ATRMultiplier: 1.5, TrailUsingATR: true},
	}
	if err := store.SaveProfile(saved); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	p, err = store.LoadProfile("EURUSD")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(saved, p) {
		t.Errorf("Round trip mismatch:\nsaved:  %+v\nloaded: %+v", saved, p)
	}
}

func TestDefaultFactsStayKnown(t *testing.T) {
	rs := Default("X", "H1")
	lists := [][]string{rs.Conditions.Entry, rs.Conditions.Exit, rs.Conditions.Strong, rs.Conditions.Weak, rs.Strategy.Invalidations}
	for _, list := range lists {
		for _, name := range list {
			if !facts.IsKnown(name) {
				t.Errorf("Default rule set references unknown fact %q", name)
			}
		}
	}
}
