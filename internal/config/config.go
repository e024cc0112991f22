// Package config loads settings from config.yaml, an optional .env file and
// HABITS_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/utils"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Database    DatabaseConfig `yaml:"database"`
	Server      ServerConfig   `yaml:"server"`
	Auth        AuthConfig     `yaml:"auth"`
	Cache       CacheConfig    `yaml:"cache"`
	Timezone    string         `yaml:"timezone"`
	DefaultUser string         `yaml:"default_user,omitempty"`
}

type DatabaseConfig struct {
	// DSN is a SQLite file path or a PostgreSQL connection string without password.
	DSN string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
	LogJSON   bool    `yaml:"log_json,omitempty"`
}

type AuthConfig struct {
	// JWTSecret is usually left empty and kept in the OS keyring instead.
	JWTSecret string   `yaml:"jwt_secret,omitempty"`
	TokenTTL  Duration `yaml:"token_ttl"`
}

type CacheConfig struct {
	RedisAddr     string   `yaml:"redis_addr,omitempty"`
	RedisPassword string   `yaml:"redis_password,omitempty"`
	RedisDB       int      `yaml:"redis_db,omitempty"`
	TTL           Duration `yaml:"ttl"`
}

// Duration is a time.Duration written as "5m" in YAML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used when no file exists.
func Default(configDir string) Config {
	return Config{
		Database: DatabaseConfig{DSN: filepath.Join(configDir, constants.DefaultDBFile)},
		Server: ServerConfig{
			Addr:      constants.DefaultAddr,
			RateLimit: constants.DefaultRateLimitRPS,
			Burst:     constants.DefaultRateLimitBurst,
		},
		Auth:     AuthConfig{TokenTTL: Duration(constants.DefaultTokenTTL)},
		Cache:    CacheConfig{TTL: Duration(constants.DefaultStatsCacheTTL)},
		Timezone: constants.DefaultTimezone,
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load reads the YAML file at path on top of the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	path = ExpandHome(path)
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Database.DSN = ExpandHome(cfg.Database.DSN)
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		p = ExpandHome(p)
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with HABITS_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("HABITS_DB"); v != "" {
		c.Database.DSN = ExpandHome(v)
	}
	if v := getenv("HABITS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("HABITS_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getenv("HABITS_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := getenv("HABITS_REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := getenv("HABITS_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := getenv("HABITS_DEFAULT_USER"); v != "" {
		c.DefaultUser = v
	}
}

// Driver reports which storage backend the DSN selects.
func (c Config) Driver() string {
	return DriverFor(c.Database.DSN)
}

// DriverFor reports which storage backend a DSN selects.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// Validate reports settings that would prevent the app from starting.
func (c Config) Validate() error {
	var problems []string
	if c.Database.DSN == "" {
		problems = append(problems, "database.dsn is empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		problems = append(problems, fmt.Sprintf("timezone %q is unknown", c.Timezone))
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		problems = append(problems, "server.rate_limit and server.burst must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
