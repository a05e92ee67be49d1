package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/taskx/internal/server"
	"github.com/desertthunder/taskx/internal/shared"
	"github.com/urfave/cli/v3"
)

// DevServer serves the reference backend until interrupted.
func (r *Runner) DevServer(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("database") {
		cfg.Database = cmd.String("database")
	}

	db, err := shared.OpenMigrated(shared.DatabaseConfig{Path: cfg.Database, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		return fmt.Errorf("failed to open server database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting dev server", "addr", cfg.Addr(), "database", cfg.Database)
	return server.New(cfg.Addr(), db, r.logger).Run(ctx)
}
