package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"trade-advisor/internal/broker/brokerobs"
	"trade-advisor/internal/broker/mt5"
	"trade-advisor/internal/broker/sim"
	"trade-advisor/internal/decisionlog"
	"trade-advisor/internal/interfaces"
	"trade-advisor/internal/logger"
	"trade-advisor/internal/news"
	"trade-advisor/internal/rules"
	"trade-advisor/internal/store"
)

// deps holds everything the engine is assembled from.
type deps struct {
	broker   interfaces.Broker
	rules    rules.Store
	news     interfaces.NewsPenalty
	sink     decisionlog.Sink
	location *time.Location
}

func buildDeps(ctx context.Context, cfg *store.Config) (*deps, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	brk := buildBroker(cfg)
	if err := brk.Start(ctx, cfg.Universe.Symbols); err != nil {
		return nil, err
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return nil, err
	}

	return &deps{
		broker:   brokerobs.Wrap(brk),
		rules:    rules.NewFileStore(cfg.Strategies.Dir, cfg.Strategies.ProfilesDir),
		news:     buildNews(cfg),
		sink:     sink,
		location: loc,
	}, nil
}

func buildBroker(cfg *store.Config) interfaces.Broker {
	if cfg.DataSource == "BRIDGE" {
		return mt5.New(mt5.Params{
			BaseURL: cfg.Bridge.BaseURL,
			APIKey:  os.Getenv(cfg.Bridge.APIKeyEnv),
			Timeout: time.Duration(cfg.Bridge.TimeoutSeconds) * time.Second,
		})
	}
	return sim.New()
}

func buildSink(cfg *store.Config) (decisionlog.Sink, error) {
	switch cfg.DecisionLog.Driver {
	case "SQLITE":
		return decisionlog.NewSQLite(cfg.DecisionLog.Path)
	case "NONE":
		return decisionlog.Noop{}, nil
	default:
		j := decisionlog.NewJSONL(cfg.DecisionLog.Path)
		if err := j.CompressOlder(cfg.DecisionLog.RetentionDays); err != nil {
			return nil, err
		}
		return j, nil
	}
}

func buildNews(cfg *store.Config) interfaces.NewsPenalty {
	if !cfg.News.Enabled {
		return news.NoopPenalty{}
	}
	svcCfg := news.DefaultServiceConfig()
	if cfg.News.CalendarURL != "" {
		svcCfg.Source.URL = cfg.News.CalendarURL
	}
	svcCfg.CacheDuration = time.Duration(cfg.News.CacheMinutes) * time.Minute
	svcCfg.ScraperTimeout = time.Duration(cfg.News.ScrapeTimeoutSecond) * time.Second
	return news.NewService(svcCfg)
}

func (d *deps) close(ctx context.Context) {
	if err := d.sink.Close(); err != nil {
		logger.Warn(ctx, "Failed to close decision log", "error", err.Error())
	}
}
