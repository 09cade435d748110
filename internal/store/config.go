package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode       string `yaml:"mode"`
	DataSource string `yaml:"data_source"`
	Timezone   string `yaml:"timezone"`
	MinBars    int    `yaml:"min_bars"`
	BarCount   int    `yaml:"bar_count"`
	Universe   struct {
		Symbols          []string `yaml:"symbols"`
		DefaultTimeframe string   `yaml:"default_timeframe"`
	} `yaml:"universe"`
	Bridge struct {
		BaseURL        string `yaml:"base_url"`
		APIKeyEnv      string `yaml:"api_key_env"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"bridge"`
	Risk struct {
		DefaultRiskPct float64 `yaml:"default_risk_pct"`
		MaxRiskPct     float64 `yaml:"max_risk_pct"`
	} `yaml:"risk"`
	Autonomy struct {
		IntervalMinutes int `yaml:"interval_minutes"`
	} `yaml:"autonomy"`
	Strategies struct {
		Dir         string `yaml:"dir"`
		ProfilesDir string `yaml:"profiles_dir"`
	} `yaml:"strategies"`
	DecisionLog struct {
		Driver        string `yaml:"driver"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"decision_log"`
	News struct {
		Enabled             bool   `yaml:"enabled"`
		CalendarURL         string `yaml:"calendar_url"`
		CacheMinutes        int    `yaml:"cache_minutes"`
		ScrapeTimeoutSecond int    `yaml:"scrape_timeout_seconds"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if c.Mode != "SEMI_AUTO" && c.Mode != "FULL_AUTO" {
		return fmt.Errorf("invalid mode '%s': must be 'SEMI_AUTO' or 'FULL_AUTO'", c.Mode)
	}
	if c.DataSource != "BRIDGE" && c.DataSource != "SIM" {
		return fmt.Errorf("invalid data_source '%s': must be 'BRIDGE' or 'SIM'", c.DataSource)
	}
	if c.DataSource == "BRIDGE" && c.Bridge.BaseURL == "" {
		return errors.New("bridge.base_url is required when data_source is 'BRIDGE'")
	}
	if len(c.Universe.Symbols) == 0 {
		return errors.New("universe.symbols cannot be empty")
	}
	if c.Risk.DefaultRiskPct <= 0 || c.Risk.DefaultRiskPct > 100 {
		return fmt.Errorf("risk.default_risk_pct must be between 0-100, got %.2f", c.Risk.DefaultRiskPct)
	}
	if c.Risk.MaxRiskPct > 0 && c.Risk.DefaultRiskPct > c.Risk.MaxRiskPct {
		return fmt.Errorf("risk.default_risk_pct %.2f exceeds risk.max_risk_pct %.2f",
			c.Risk.DefaultRiskPct, c.Risk.MaxRiskPct)
	}
	if d := c.DecisionLog.Driver; d != "" && d != "JSONL" && d != "SQLITE" && d != "NONE" {
		return fmt.Errorf("decision_log.driver must be 'JSONL', 'SQLITE', or 'NONE', got '%s'", d)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataSource == "" {
		c.DataSource = "SIM"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.MinBars == 0 {
		c.MinBars = 50
	}
	if c.BarCount == 0 {
		c.BarCount = 200
	}
	if c.Universe.DefaultTimeframe == "" {
		c.Universe.DefaultTimeframe = "H1"
	}
	if c.Bridge.TimeoutSeconds == 0 {
		c.Bridge.TimeoutSeconds = 10
	}
	if c.Autonomy.IntervalMinutes == 0 {
		c.Autonomy.IntervalMinutes = 15
	}
	if c.Strategies.Dir == "" {
		c.Strategies.Dir = "strategies"
	}
	if c.Strategies.ProfilesDir == "" {
		c.Strategies.ProfilesDir = "profiles"
	}
	if c.DecisionLog.Driver == "" {
		c.DecisionLog.Driver = "JSONL"
	}
	if c.DecisionLog.Path == "" {
		c.DecisionLog.Path = "decisions"
	}
	if c.DecisionLog.RetentionDays == 0 {
		c.DecisionLog.RetentionDays = 30
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 30
	}
	if c.News.ScrapeTimeoutSecond == 0 {
		c.News.ScrapeTimeoutSecond = 30
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
