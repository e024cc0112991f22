package users

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/config"
	"github.com/BradSavary/Habit-Tracker/internal/validation"
)

type UserCmd struct {
	Register   UserRegisterCmd   `cmd:"" help:"Create an account."`
	LoginCheck UserLoginCheckCmd `cmd:"" help:"Check an email and password."`
}

type UserRegisterCmd struct {
	Name     string `required:"" help:"Display name."`
	Email    string `required:"" help:"Email address used to log in."`
	Password string `env:"HABITS_PASSWORD" help:"Password (read from stdin when omitted)."`
	Default  bool   `help:"Make this account the default user in the config file."`
}

func (c *UserRegisterCmd) Run(app *cli.Context, ctx context.Context) error {
	password, err := readPassword(app, c.Password)
	if err != nil {
		return err
	}

	user, err := app.Service.Register(ctx, validation.RegistrationInput{
		Name:     c.Name,
		Email:    c.Email,
		Password: password,
	})
	if err != nil {
		return cli.ValidationReport(err)
	}
	app.Printf("✓ Registered %s <%s> (ID: %s)\n", user.Name, user.Email, user.ID)

	if c.Default && app.ConfigPath != "" {
		app.Config.DefaultUser = user.Email
		if err := config.Save(app.ConfigPath, app.Config); err != nil {
			return fmt.Errorf("failed to update config file: %w", err)
		}
		app.Printf("  %s is now the default user\n", user.Email)
	}
	return nil
}

type UserLoginCheckCmd struct {
	Email    string `required:"" help:"Email address."`
	Password string `env:"HABITS_PASSWORD" help:"Password (read from stdin when omitted)."`
}

func (c *UserLoginCheckCmd) Run(app *cli.Context, ctx context.Context) error {
	password, err := readPassword(app, c.Password)
	if err != nil {
		return err
	}
	user, err := app.Service.Authenticate(ctx, c.Email, password)
	if err != nil {
		return err
	}
	app.Printf("✓ Credentials valid for %s (level %d, %d XP)\n", user.Name, user.Level, user.XP)
	return nil
}

// readPassword returns flagValue or the first line of the command input.
func readPassword(app *cli.Context, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	in := app.In
	if in == nil {
		in = os.Stdin
	}
	app.Printf("Password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	app.Println()
	return strings.TrimRight(line, "\r\n"), nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(app *cli.Context, ctx context.Context) error {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	stats, err := app.Service.Stats(ctx, user.ID)
	if err != nil {
		return err
	}
	app.Printer().Stats(stats)
	return nil
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(app *cli.Context, ctx context.Context) error {
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	profile, err := app.Service.Profile(ctx, user.ID)
	if err != nil {
		return err
	}
	app.Printer().Progress(profile)
	return nil
}
