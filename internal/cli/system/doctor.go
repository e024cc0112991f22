package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/cache"
	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

// skipError marks a check that could not run.
type skipError struct{ reason string }

func (e skipError) Error() string { return "skipped: " + e.reason }

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(app *cli.Context, ctx context.Context) error {
	app.Println("Running diagnostics...")
	app.Println()

	failed := false
	fail := func(name string, err error) {
		var skip skipError
		switch {
		case err == nil:
			app.Printf("✓ %s: OK\n", name)
		case errors.As(err, &skip):
			app.Printf("⊘ %s: SKIPPED (%s)\n", name, skip.reason)
		default:
			app.Printf("❌ %s: FAIL\n", name)
			app.Printf("   Error: %v\n", err)
			failed = true
		}
	}
	warn := func(name string, err error) {
		if err == nil {
			app.Printf("✓ %s: OK\n", name)
			return
		}
		app.Printf("⚠ %s: WARNING\n", name)
		app.Printf("   %v\n", err)
	}

	fail("Configuration", app.Config.Validate())

	dbErr := checkDBReachable(ctx, app)
	fail("Database reachable", dbErr)
	if dbErr != nil {
		fail("Schema version", skipped("database not reachable"))
		fail("Data validation", skipped("database not reachable"))
	} else {
		fail("Schema version", checkSchema(ctx, app))
		fail("Data validation", checkData(ctx, app))
	}

	if app.IsSQLite() {
		warn("Backups present", checkBackupsPresent(app))
	}
	warn("JWT secret", checkJWTSecret(app))
	if app.Config.Cache.RedisAddr != "" {
		warn("Redis cache", checkRedis(app))
	}
	fail("Clock/timezone", checkClockTimezone(app))

	app.Println()
	if failed {
		app.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	app.Println("All diagnostics passed!")
	return nil
}

func skipped(reason string) error {
	return skipError{reason: reason}
}

func checkDBReachable(ctx context.Context, app *cli.Context) error {
	if err := app.Store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := app.Store.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func checkSchema(ctx context.Context, app *cli.Context) error {
	st, err := app.Store.MigrationStatus(ctx)
	if err != nil {
		return err
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d, run 'habits migrate'", st.Current, st.Latest)
	}
	return nil
}

// checkData decodes every habit of the selected user and computes their
// statistics, which fails on corrupt schedules.
func checkData(ctx context.Context, app *cli.Context) error {
	user, err := app.CurrentUser(ctx)
	if errors.Is(err, cli.ErrNoUser) {
		return skipped("no user selected")
	}
	if err != nil {
		return err
	}
	if _, err := app.Service.Histories(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to load habits of %s: %w", user.Email, err)
	}
	if _, err := app.Service.Stats(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to compute statistics of %s: %w", user.Email, err)
	}
	return nil
}

func checkBackupsPresent(app *cli.Context) error {
	backups, err := app.BackupManager().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habits backup create'")
	}
	return nil
}

func checkJWTSecret(app *cli.Context) error {
	if _, err := JWTSecret(app.Config.Auth); err != nil {
		return fmt.Errorf("%w, 'habits serve' will not start", err)
	}
	return nil
}

func checkRedis(app *cli.Context) error {
	if _, ok := app.Cache.(*cache.Memory); ok {
		return fmt.Errorf("%s unreachable, statistics are cached in memory", app.Config.Cache.RedisAddr)
	}
	return nil
}

func checkClockTimezone(app *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	loc, err := utils.LoadLocation(app.Config.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", app.Config.Timezone, err)
	}
	if loc == time.UTC {
		app.Println("   Note: timezone is UTC")
	}
	return nil
}
