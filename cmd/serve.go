package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve opens the store, assembles the API and serves it until SIGINT or SIGTERM.
//
// A configured but unreachable search index is logged and skipped; the API then searches the store directly.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	deps := web.Deps{
		Store:  store,
		Hasher: services.NewPasswordHasher(r.config.Security.BcryptCost),
		Logger: r.logger,
		Server: r.config.Server,
	}

	index, err := r.openIndex(ctx)
	switch {
	case err != nil:
		r.logger.Warn("search index unavailable, falling back to store search", "error", err)
	case index != nil:
		deps.Index = index
		r.logger.Info("search index connected", "host", r.config.Search.Host)
	}

	app := web.NewApp(deps)

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv := server.New(addr, app.Router, shared.WithLogger(r.logger, "component", "http"))
	return srv.Run(ctx)
}
