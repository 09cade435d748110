package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trade-advisor/internal/autonomy"
	"trade-advisor/internal/engine"
	"trade-advisor/internal/logger"
	"trade-advisor/internal/store"
	"trade-advisor/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("ADVISOR_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := store.LoadConfig(configPath)
	must(err)

	must(logger.Init())
	must(trace.Init())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	deps, err := buildDeps(ctx, cfg)
	must(err)
	defer deps.close(ctx)

	eng := engine.New(cfg, deps.broker, deps.rules, deps.news, deps.sink, engine.Options{
		Location: deps.location,
	})
	exec := engine.NewExecutor(deps.broker, eng.Book(), cfg.Mode)

	loop := autonomy.NewLoop(eng, exec)
	must(loop.Start(ctx, cfg.Autonomy.IntervalMinutes))

	logger.Info(ctx, "Advisor started",
		"mode", cfg.Mode,
		"data_source", cfg.DataSource,
		"symbols", cfg.Universe.Symbols,
		"timeframe", cfg.Universe.DefaultTimeframe,
	)

	// First sweep immediately rather than waiting out the interval.
	loop.RunNow(ctx)

	<-sigc
	logger.Info(ctx, "Shutting down")

	loop.Stop(ctx)
	deps.broker.Stop(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = trace.Shutdown(shutdownCtx)
}
