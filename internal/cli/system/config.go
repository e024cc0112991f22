package system

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/BradSavary/Habit-Tracker/internal/auth"
	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/config"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/keyring"
	"github.com/BradSavary/Habit-Tracker/internal/storage/postgres"
)

type ConfigCmd struct {
	SetConnection ConfigSetConnectionCmd `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	SetJWTSecret  ConfigSetJWTSecretCmd  `cmd:"" name:"set-jwt-secret" help:"Store the API token signing secret in the OS keyring."`
	Show          ConfigShowCmd          `cmd:"" help:"Show the effective configuration." default:"1"`
}

// ConfigSetConnectionCmd stores the database connection string in the OS keyring
// and points the config file at it.
type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
	NoUse            bool   `help:"Do not switch database.dsn to the keyring entry."`
}

func (cmd *ConfigSetConnectionCmd) Run(app *cli.Context) error {
	if config.DriverFor(cmd.ConnectionString) != config.DriverPostgres {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		app.Println("⚠️  Connection string contains a password. It will be kept in the encrypted OS keyring only.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	app.Println("✓ Connection string stored in the OS keyring")

	if cmd.NoUse || app.ConfigPath == "" {
		return nil
	}
	app.Config.Database.DSN = constants.KeyringDSN
	if err := config.Save(app.ConfigPath, app.Config); err != nil {
		return fmt.Errorf("failed to update config file: %w", err)
	}
	app.Printf("  database.dsn set to %q in %s\n", constants.KeyringDSN, app.ConfigPath)
	return nil
}

type ConfigSetJWTSecretCmd struct {
	Secret   string `arg:"" optional:"" help:"Secret of at least 32 bytes."`
	Generate bool   `help:"Generate a random secret."`
}

func (cmd *ConfigSetJWTSecretCmd) Run(app *cli.Context) error {
	secret := cmd.Secret
	switch {
	case cmd.Generate && secret != "":
		return errors.New("pass either a secret or --generate, not both")
	case cmd.Generate:
		generated, err := auth.GenerateSecret()
		if err != nil {
			return err
		}
		secret = generated
	case len(secret) < auth.MinSecretLen:
		return auth.ErrWeakSecret
	}

	if err := keyring.SetJWTSecret(secret); err != nil {
		return err
	}
	app.Println("✓ JWT secret stored in the OS keyring")
	return nil
}

type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(app *cli.Context) error {
	shown := app.Config
	shown.Database.DSN = cli.MaskPassword(shown.Database.DSN)
	if shown.Auth.JWTSecret != "" {
		shown.Auth.JWTSecret = "****"
	}
	if shown.Cache.RedisPassword != "" {
		shown.Cache.RedisPassword = "****"
	}

	out, err := yaml.Marshal(shown)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	app.Printf("# %s\n%s", app.ConfigPath, out)

	app.Println()
	app.Printf("storage driver: %s\n", storageDriver(app.Config))
	if !keyring.IsAvailable() {
		app.Println("keyring:        unavailable")
		return nil
	}
	app.Printf("keyring:        connection string %s, JWT secret %s\n",
		keyringState(keyring.GetConnectionString), keyringState(keyring.GetJWTSecret))
	return nil
}

func storageDriver(cfg config.Config) string {
	if cfg.Database.DSN == constants.KeyringDSN {
		return config.DriverPostgres + " (from keyring)"
	}
	return cfg.Driver()
}

func keyringState(get func() (string, error)) string {
	if _, err := get(); err != nil {
		return "not set"
	}
	return "set"
}
