package system

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/config"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(app *cli.Context, ctx context.Context) error {
	if c.Force {
		if !app.IsSQLite() {
			return errors.New("--force is only supported for SQLite databases")
		}
		dbPath := app.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := app.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
				if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
			}
			app.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := app.Store.Init(ctx); err != nil {
		return err
	}
	app.Printf("Initialized habits storage at: %s\n", app.Store.GetConfigPath())

	if app.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(config.ExpandHome(app.ConfigPath)); os.IsNotExist(err) {
		if err := config.Save(app.ConfigPath, app.Config); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		app.Printf("Wrote default configuration to: %s\n", app.ConfigPath)
	}
	return nil
}

type MigrateCmd struct {
	Status bool `help:"Only show the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(app *cli.Context, ctx context.Context) error {
	st, err := app.Store.MigrationStatus(ctx)
	if err != nil {
		return err
	}
	if c.Status {
		app.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		if len(st.Pending) == 0 {
			app.Println("No pending migrations.")
			return nil
		}
		app.Println("Pending migrations:")
		for _, m := range st.Pending {
			app.Printf("  %03d %s\n", m.Version, m.Name)
		}
		return nil
	}

	if len(st.Pending) > 0 {
		app.PerformAutomaticBackup(ctx)
	}
	applied, err := app.Store.Migrate(ctx, func(msg string) { app.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed after %d applied: %w", applied, err)
	}
	return nil
}
