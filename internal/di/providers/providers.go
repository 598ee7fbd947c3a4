// Package providers contains dependency injection providers for the
// Newsdesk server.
package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/newsdeskapp/newsdesk-server/internal/config"
	"github.com/newsdeskapp/newsdesk-server/internal/identity"
	"github.com/newsdeskapp/newsdesk-server/internal/logger"
	"github.com/newsdeskapp/newsdesk-server/internal/service"
	"github.com/newsdeskapp/newsdesk-server/internal/store"
)

const shutdownTimeout = 10 * time.Second

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Newsdesk Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.Path,
	)

	return log, nil
}

// ProvideIdentityVerifier provides the shared-key token verifier. The key
// lives next to the database so the paired identity provider can read it in
// development.
func ProvideIdentityVerifier(i do.Injector) (*identity.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := identity.LoadOrGenerateKey(cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	cfg.Identity.Key = key

	log.Info("Identity key loaded", "path", cfg.Data.Path)

	return identity.NewTokenService(key, cfg.Identity.TokenDuration)
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store. The store is opened here, before
// any provider that serves requests, so handlers never observe a
// half-initialized database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.Data.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Data.Path)

	return &StoreHandle{Store: db}, nil
}

// ProvideArticleService provides the article service.
func ProvideArticleService(i do.Injector) (*service.ArticleService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewArticleService(storeHandle.Store, log.Logger), nil
}

// ProvideUserService provides the user service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvidePublisherService provides the publisher service.
func ProvidePublisherService(i do.Injector) (*service.PublisherService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewPublisherService(storeHandle.Store, log.Logger), nil
}
