// Package storefront wires the client core together: gateway, durable token
// store, event bus, and the cart and auth state containers.
package storefront

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flicky/go-storefront/internal/auth"
	"github.com/flicky/go-storefront/internal/cart"
	"github.com/flicky/go-storefront/internal/config"
	"github.com/flicky/go-storefront/internal/events"
	"github.com/flicky/go-storefront/internal/gateway"
	"github.com/flicky/go-storefront/internal/token"
)

// App is the composed client. Presentation code subscribes to Events for
// notifications and drives Cart and Auth; everything else is internal.
type App struct {
	Config  *config.Config
	Events  *events.Bus
	Tokens  token.Store
	Gateway gateway.Gateway
	Cart    *cart.Container
	Auth    *auth.Container

	redisClient *redis.Client
}

// New composes an App for the configured mode. With REDIS_ADDR set the
// session token lives in Redis, otherwise in a local file.
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Events: events.NewBus()}

	if cfg.Redis.Addr != "" {
		app.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.Tokens = token.NewRedisStore(app.redisClient, cfg.Auth.TokenKey)
	} else {
		app.Tokens = token.NewFileStore(cfg.Auth.TokenPath, cfg.Auth.TokenKey)
	}

	gw, err := gateway.New(cfg, app.Tokens)
	if err != nil {
		return nil, fmt.Errorf("build gateway: %w", err)
	}
	app.Gateway = gw
	app.Cart = cart.New(app.Events, gw)
	app.Auth = auth.New(gw, app.Tokens, app.Events)
	return app, nil
}

// Start runs the startup session check: a stored token is re-hydrated into
// an authenticated session, a stale one is cleared.
func (a *App) Start(ctx context.Context) error {
	return a.Auth.CheckSession(ctx)
}

func (a *App) Close() error {
	a.Cart.Wait()
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}
