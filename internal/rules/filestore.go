package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps strategy documents and profiles as JSON files:
// <strategiesDir>/<SYMBOL>_<TIMEFRAME>.json and <profilesDir>/<SYMBOL>.json.
type FileStore struct {
	strategiesDir string
	profilesDir   string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(strategiesDir, profilesDir string) *FileStore {
	return &FileStore{strategiesDir: strategiesDir, profilesDir: profilesDir}
}

func (s *FileStore) ruleSetPath(symbol, timeframe string) string {
	return filepath.Join(s.strategiesDir, fmt.Sprintf("%s_%s.json", symbol, timeframe))
}

// LoadRuleSet reads the strategy document for symbol/timeframe. A missing
// file is a *NotFoundError; a malformed one is a plain error.
func (s *FileStore) LoadRuleSet(symbol, timeframe string) (*RuleSet, error) {
	b, err := os.ReadFile(s.ruleSetPath(symbol, timeframe))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Symbol: symbol, Timeframe: timeframe, Dir: s.strategiesDir}
		}
		return nil, fmt.Errorf("read rule set %s %s: %w", symbol, timeframe, err)
	}
	var rs RuleSet
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("parse rule set %s %s: %w", symbol, timeframe, err)
	}
	return &rs, nil
}

// SaveRuleSet validates and persists a strategy document.
func (s *FileStore) SaveRuleSet(rs *RuleSet) error {
	if errs := Validate(rs); len(errs) > 0 {
		return fmt.Errorf("invalid rule set %s %s: %s", rs.Symbol, rs.Timeframe, strings.Join(errs, "; "))
	}
	if err := os.MkdirAll(s.strategiesDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.ruleSetPath(rs.Symbol, rs.Timeframe), b, 0o644)
}

// DeleteRuleSet removes a strategy document; false when it did not exist.
func (s *FileStore) DeleteRuleSet(symbol, timeframe string) (bool, error) {
	err := os.Remove(s.ruleSetPath(symbol, timeframe))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListRuleSets returns the (symbol, timeframe) pairs with a stored strategy,
// sorted by symbol then timeframe.
func (s *FileStore) ListRuleSets() ([][2]string, error) {
	entries, err := os.ReadDir(s.strategiesDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out [][2]string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		stem := strings.TrimSuffix(name, ".json")
		// SYMBOL_TIMEFRAME; symbols themselves may contain underscores.
		i := strings.LastIndex(stem, "_")
		if i <= 0 || i == len(stem)-1 {
			continue
		}
		out = append(out, [2]string{stem[:i], stem[i+1:]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out, nil
}

// LoadProfile reads the profile for a symbol. Profiles are optional: a
// missing file returns (nil, nil).
func (s *FileStore) LoadProfile(symbol string) (*Profile, error) {
	b, err := os.ReadFile(filepath.Join(s.profilesDir, symbol+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profile %s: %w", symbol, err)
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", symbol, err)
	}
	return &p, nil
}

// SaveProfile persists a symbol profile.
func (s *FileStore) SaveProfile(p *Profile) error {
	if p.Symbol == "" {
		return errors.New("profile symbol is required")
	}
	if err := os.MkdirAll(s.profilesDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.profilesDir, p.Symbol+".json"), b, 0o644)
}
