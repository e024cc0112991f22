// Package cli holds the state shared by the habits commands and the helpers
// they use to parse flags and print results.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/backup"
	"github.com/BradSavary/Habit-Tracker/internal/cache"
	"github.com/BradSavary/Habit-Tracker/internal/config"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/keyring"
	"github.com/BradSavary/Habit-Tracker/internal/logger"
	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/service"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
	"github.com/BradSavary/Habit-Tracker/internal/storage/postgres"
	"github.com/BradSavary/Habit-Tracker/internal/storage/sqlite"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

// ErrNoUser is returned by commands acting for a user when none was selected.
var ErrNoUser = errors.New("no user selected, pass --user <email> or set default_user in the config file")

type Context struct {
	Store      storage.Provider
	Service    *service.Service
	Cache      cache.Cache
	Config     config.Config
	ConfigPath string
	// UserEmail selects the acting user for habit, mood and stats commands.
	UserEmail string
	Out       io.Writer
	In        io.Reader
}

// CurrentUser resolves the acting user.
func (c *Context) CurrentUser(ctx context.Context) (models.User, error) {
	email := c.UserEmail
	if email == "" {
		email = c.Config.DefaultUser
	}
	if email == "" {
		return models.User{}, ErrNoUser
	}
	user, err := c.Service.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return models.User{}, fmt.Errorf("user %s not found, create it with 'habits user register'", email)
		}
		return models.User{}, err
	}
	return user, nil
}

// Printer returns a printer writing to the command output.
func (c *Context) Printer() *Printer {
	return NewPrinter(c.output())
}

func (c *Context) output() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) input() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.output(), format, args...)
}

// Println writes a line to the command output.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.output(), args...)
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Context) Confirm(question string) (bool, error) {
	c.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(c.input()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// ValidationReport rewrites a validation error as a report listing every
// problem. Other errors are returned unchanged.
func ValidationReport(err error) error {
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		return err
	}
	r := validation.Result{Problems: vErr.Problems}
	return errors.New(strings.TrimSuffix(r.FormatReport(), "\n"))
}

// IsSQLite reports whether the store is a local SQLite file.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// BackupManager returns the backup manager for the SQLite database, or nil for
// PostgreSQL.
func (c *Context) BackupManager() *backup.Manager {
	if !c.IsSQLite() {
		return nil
	}
	return backup.NewManager(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates a backup after a destructive change and only
// logs failures.
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.CreateBackup(ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks the storage backend for the configured DSN. The store is not
// opened yet.
func OpenStore(cfg config.Config, loc *time.Location) (storage.Provider, error) {
	dsn := cfg.Database.DSN
	if dsn == constants.KeyringDSN {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		if config.DriverFor(connStr) != config.DriverPostgres {
			return nil, fmt.Errorf("%w: keyring entry is not a PostgreSQL connection string", postgres.ErrInvalidConnectionString)
		}
		// The keyring may hold a password.
		return postgres.New(connStr, loc), nil
	}

	if config.DriverFor(dsn) == config.DriverPostgres {
		if err := postgres.ValidateConnString(dsn); err != nil {
			return nil, err
		}
		return postgres.New(dsn, loc), nil
	}
	return sqlite.NewStore(dsn, loc), nil
}

// OpenCache connects to Redis when configured and falls back to an in-process
// cache when it is not or cannot be reached.
func OpenCache(ctx context.Context, cfg config.CacheConfig) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewMemory()
	}
	rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn("Redis unavailable, using in-memory stats cache", "addr", cfg.RedisAddr, "error", err)
		_ = rc.Close()
		return cache.NewMemory()
	}
	return rc
}

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"dim":       time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"lun":       time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"mar":       time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"mer":       time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"jeu":       time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"ven":       time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
	"sam":       time.Saturday,
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (0=Sunday, 6=Saturday) into weekday numbers.
func ParseWeekdays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := weekdayNames[part]; ok {
			days = append(days, int(wd))
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}
	return days, nil
}

// ParseMonthDays parses a comma-separated list of days of the month.
func ParseMonthDays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		num, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || num < 1 || num > 31 {
			return nil, fmt.Errorf("invalid day of month: %s", strings.TrimSpace(part))
		}
		days = append(days, num)
	}
	return days, nil
}

// FormatSchedule describes a schedule in a few words.
func FormatSchedule(s models.Schedule) string {
	switch s := s.(type) {
	case models.WeeklyOnDays:
		names := make([]string, len(s.Days))
		for i, d := range s.Days {
			names[i] = d.String()[:3]
		}
		return "weekly on " + strings.Join(names, ",")
	case models.WeeklyCount:
		if s.Goal == 0 {
			return "weekly"
		}
		return fmt.Sprintf("%d×/week", s.Goal)
	case models.MonthlyOnDays:
		days := make([]string, len(s.Days))
		for i, d := range s.Days {
			days[i] = strconv.Itoa(d)
		}
		return "monthly on " + strings.Join(days, ",")
	case models.MonthlyCount:
		if s.Goal == 0 {
			return "monthly"
		}
		return fmt.Sprintf("%d×/month", s.Goal)
	default:
		return "daily"
	}
}

// MaskPassword hides the password of a PostgreSQL connection string.
func MaskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
