// Package app composes the toolhub core: registry provider, client
// stores, resolver and session factory.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/config"
	"toolhub/internal/infra/generate"
	"toolhub/internal/infra/ledger"
	"toolhub/internal/infra/resolver"
	"toolhub/internal/infra/session"
	"toolhub/internal/infra/storage"
	"toolhub/internal/infra/userstore"
)

type Application struct {
	logger  *zap.Logger
	cfg     config.Config
	metrics domain.Metrics

	provider *RegistryProvider
	port     storage.Port

	Users    *userstore.Store
	Ledger   *ledger.Ledger
	Resolver *resolver.Resolver
}

type Options struct {
	Metrics domain.Metrics
	// Port overrides the default bbolt storage, mainly for tests.
	Port storage.Port
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = domain.NopMetrics()
	}

	provider, err := NewRegistryProvider(ctx, cfg.ContentRoot, logger, metrics)
	if err != nil {
		return nil, err
	}

	port := opts.Port
	if port == nil {
		port, err = storage.OpenBolt(cfg.DataPath)
		if err != nil {
			return nil, err
		}
	}

	users := userstore.New(port, logger)
	usage := ledger.New(port, logger, metrics)

	app := &Application{
		logger:   logger.Named("app"),
		cfg:      cfg,
		metrics:  metrics,
		provider: provider,
		port:     port,
		Users:    users,
		Ledger:   usage,
	}
	app.Resolver = resolver.New(provider.Store(), users, logger, metrics)
	return app, nil
}

// Registry returns the registry provider.
func (a *Application) Registry() *RegistryProvider { return a.provider }

// Reload refreshes the registry snapshot and rebinds the resolver.
func (a *Application) Reload(ctx context.Context) error {
	if err := a.provider.Reload(ctx); err != nil {
		return err
	}
	a.Resolver = resolver.New(a.provider.Store(), a.Users, a.logger, a.metrics)
	return nil
}

// NewSession opens an authoring session with the configured delays.
func (a *Application) NewSession() *session.Session {
	cfg := session.Config{
		ThinkingDelay:   time.Duration(a.cfg.ThinkingMillis) * time.Millisecond,
		GeneratingDelay: time.Duration(a.cfg.GeneratingMillis) * time.Millisecond,
		AdjustDelay:     time.Duration(a.cfg.AdjustMillis) * time.Millisecond,
	}
	return session.New(generate.NewTemplateGenerator(), session.SystemClock(), cfg, a.logger, a.metrics)
}

// RelatedLimit returns the configured related-tools truncation.
func (a *Application) RelatedLimit() int {
	if a.cfg.RelatedLimit > 0 {
		return a.cfg.RelatedLimit
	}
	return domain.DefaultRelatedLimit
}

// Close releases the storage port.
func (a *Application) Close() error {
	return a.port.Close()
}
