package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/cli/backups"
	"github.com/BradSavary/Habit-Tracker/internal/cli/habits"
	"github.com/BradSavary/Habit-Tracker/internal/cli/moods"
	"github.com/BradSavary/Habit-Tracker/internal/cli/system"
	"github.com/BradSavary/Habit-Tracker/internal/cli/users"
	"github.com/BradSavary/Habit-Tracker/internal/config"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/errors"
	"github.com/BradSavary/Habit-Tracker/internal/logger"
	"github.com/BradSavary/Habit-Tracker/internal/service"
)

var CLI struct {
	Version    kong.VersionFlag
	ConfigPath string `name:"config" help:"Config file path." type:"string" default:"~/.config/habits/config.yaml" env:"HABITS_CONFIG"`
	DB         string `name:"db" help:"SQLite file or PostgreSQL connection string without password (overrides database.dsn)."`
	UserEmail  string `name:"user" short:"u" help:"Email of the acting user (overrides default_user)."`
	Debug      bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd    `cmd:"" help:"Initialize habits storage."`
	Migrate  system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve    system.ServeCmd   `cmd:"" help:"Serve the JSON API."`
	Config   system.ConfigCmd  `cmd:"" help:"Manage configuration and secrets."`
	User     users.UserCmd     `cmd:"" help:"Manage accounts."`
	Habit    habits.HabitCmd   `cmd:"" help:"Manage and track habits." default:"1"`
	Mood     moods.MoodCmd     `cmd:"" help:"Keep a mood journal."`
	Stats    users.StatsCmd    `cmd:"" help:"Show completion statistics."`
	Progress users.ProgressCmd `cmd:"" help:"Show level, XP and rewards."`
	Backup   backups.BackupCmd `cmd:"" help:"Manage database backups."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, levels and a mood journal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	command := "habit"
	if fields := strings.Fields(kctx.Command()); len(fields) > 0 {
		command = fields[0]
	}

	cfg, err := config.Load(CLI.ConfigPath)
	if err != nil {
		errors.Fatal(err)
	}
	configDir := filepath.Dir(config.ExpandHome(CLI.ConfigPath))
	if err := config.LoadDotEnv(filepath.Join(configDir, ".env"), ".env"); err != nil {
		errors.Fatal(err)
	}
	cfg.ApplyEnv(os.Getenv)
	if CLI.DB != "" {
		cfg.Database.DSN = config.ExpandHome(CLI.DB)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Server:    command == "serve",
		JSON:      cfg.Server.LogJSON,
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.ConfigPath,
		UserEmail:  CLI.UserEmail,
	}

	// Config commands only touch the config file and the keyring.
	if command != "config" {
		loc, err := cfg.Location()
		if err != nil {
			errors.Fatal(err)
		}
		store, err := cli.OpenStore(cfg, loc)
		if err != nil {
			errors.Fatal(err)
		}
		defer store.Close()

		statsCache := cli.OpenCache(ctx, cfg.Cache)
		defer statsCache.Close()

		app.Store = store
		app.Cache = statsCache
		app.Service = service.New(store,
			service.WithCache(statsCache),
			service.WithLocation(loc),
			service.WithStatsTTL(cfg.Cache.TTL.Std()),
		)

		// init creates the database and doctor reports load failures itself.
		if command != "init" && command != "doctor" {
			if err := store.Load(ctx); err != nil {
				errors.Fatal(err)
			}
		}
	}

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(app); err != nil {
		stop()
		errors.Fatal(err)
	}
}
