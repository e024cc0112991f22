package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/BradSavary/Habit-Tracker/internal/api"
	"github.com/BradSavary/Habit-Tracker/internal/auth"
	"github.com/BradSavary/Habit-Tracker/internal/cli"
	"github.com/BradSavary/Habit-Tracker/internal/config"
	"github.com/BradSavary/Habit-Tracker/internal/keyring"
	"github.com/BradSavary/Habit-Tracker/internal/logger"
)

type ServeCmd struct {
	Addr      string  `help:"Listen address (overrides server.addr)."`
	RateLimit float64 `help:"Requests per second allowed per client IP (overrides server.rate_limit)."`
	Burst     int     `help:"Burst size of the per-IP rate limiter (overrides server.burst)."`
}

func (c *ServeCmd) Run(app *cli.Context, ctx context.Context) error {
	secret, err := JWTSecret(app.Config.Auth)
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer([]byte(secret), app.Config.Auth.TokenTTL.Std())
	if err != nil {
		return err
	}

	opts := api.Options{
		Service:   app.Service,
		Issuer:    issuer,
		DB:        app.Store,
		RateLimit: app.Config.Server.RateLimit,
		Burst:     app.Config.Server.Burst,
	}
	if c.RateLimit > 0 {
		opts.RateLimit = c.RateLimit
	}
	if c.Burst > 0 {
		opts.Burst = c.Burst
	}
	addr := app.Config.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := api.New(opts)
	logger.Info("Starting API", "addr", addr, "store", app.Store.GetConfigPath(), "routes", len(srv.Routes()))
	app.Printf("Serving the habits API on http://%s (Ctrl+C to stop)\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

// JWTSecret returns the configured signing secret, falling back to the OS
// keyring.
func JWTSecret(cfg config.AuthConfig) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	secret, err := keyring.GetJWTSecret()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", auth.ErrMissingSecret
		}
		return "", fmt.Errorf("%w: %w", auth.ErrMissingSecret, err)
	}
	return secret, nil
}
