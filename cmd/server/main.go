// Package main runs the Leitner scheduling API: study sessions, queue
// summaries, progress and review submission over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/leitner-api/internal/config"
	"github.com/phrazzld/leitner-api/internal/platform/logger"
	"github.com/phrazzld/leitner-api/internal/platform/postgres"
)

type flags struct {
	configPath  string
	migrate     string
	autoMigrate bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file (default: ./config.yaml if present)")
	fs.StringVar(&f.migrate, "migrate", "", "run a goose command (up, down, reset, status, version) and exit")
	fs.BoolVar(&f.autoMigrate, "auto-migrate", false, "apply pending migrations before serving")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	return f, nil
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		log.Fatalf("leitner-api: %v", err)
	}
}

func run(ctx context.Context, f flags) error {
	cfg, err := loadAppConfig(f.configPath)
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("cache_backend", cfg.Cache.Backend),
		slog.String("timezone", cfg.Scheduler.Timezone))

	db, err := setupAppDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if f.migrate != "" {
		defer closeDB(db, l)
		return postgres.Migrate(ctx, db, f.migrate, l)
	}
	if f.autoMigrate {
		if err := postgres.Migrate(ctx, db, "up", l); err != nil {
			closeDB(db, l)
			return err
		}
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		closeDB(db, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func loadAppConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
