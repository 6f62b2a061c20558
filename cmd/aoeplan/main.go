package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/gridai/internal/config"
	"github.com/udisondev/gridai/internal/db"
	"github.com/udisondev/gridai/internal/scenario"
)

const ConfigPath = "config/aoeplan.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	// Load config first to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("GRIDAI_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadPlanner(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("aoeplan starting", "log_level", cfg.LogLevel, "seed", cfg.Seed, "workers", cfg.Workers)

	paths := cfg.Scenarios
	if len(args) > 0 {
		paths = args
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scenarios given")
	}

	scenarios := make([]*scenario.Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := scenario.Load(p)
		if err != nil {
			return err
		}
		slog.Info("scenario loaded", "name", s.Name, "queries", len(s.Queries))
		scenarios = append(scenarios, s)
	}

	runner := scenario.NewRunner(cfg.Workers, cfg.Seed, slog.Default())

	if cfg.Catalog.Enabled || cfg.Catalog.Sync {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		repo := database.Techniques()
		if cfg.Catalog.Sync {
			for _, s := range scenarios {
				n, err := scenario.SyncCatalog(ctx, repo, s)
				if err != nil {
					return err
				}
				slog.Info("techniques synced", "scenario", s.Name, "changed", n)
			}
		}
		if cfg.Catalog.Enabled {
			if err := runner.LoadCatalog(ctx, repo); err != nil {
				return err
			}
		}
	}

	for _, s := range scenarios {
		results, err := runner.Run(ctx, s)
		if err != nil {
			return fmt.Errorf("running scenario %q: %w", s.Name, err)
		}
		for _, res := range results {
			logResult(s.Name, res)
		}
	}
	return nil
}

func logResult(name string, res scenario.Result) {
	attrs := []any{"scenario", name, "id", res.QueryID, "kind", res.Kind, "actor", res.Actor}
	if res.Path != nil {
		attrs = append(attrs, "path", res.Path)
	}
	if res.Cast != nil {
		attrs = append(attrs, "cast", *res.Cast)
	}
	if res.Area != nil {
		attrs = append(attrs, "area", len(res.Area))
	}
	for i, p := range res.Placements {
		attrs = append(attrs, fmt.Sprintf("placement_%d", i), fmt.Sprintf("%v hits %v", p.Cell, p.Targets))
	}
	slog.Info("query result", attrs...)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
