package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songbook/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db, dialect, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations", "driver", dialect)
	applied, err := shared.RunMigrations(db, dialect)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	r.logger.Info("setup complete", "driver", dialect, "applied", applied, "version", version)
	r.writePlain("✓ Database ready (schema version %d, %d migration(s) applied)\n", version, applied)
	return nil
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, dialect, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	version, err := shared.RollbackMigration(db, dialect)
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.logger.Info("rolled back migration", "version", version)
	r.writePlain("✓ Rolled back migration %d\n", version)
	return nil
}

// SetupConfig writes the embedded configuration template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config path is empty", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Wrote %s\n", r.configPath)
	return nil
}
