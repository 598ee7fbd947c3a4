// Package di provides dependency injection configuration for the Newsdesk
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/newsdeskapp/newsdesk-server/internal/config"
	"github.com/newsdeskapp/newsdesk-server/internal/di/providers"
	"github.com/newsdeskapp/newsdesk-server/internal/identity"
	"github.com/newsdeskapp/newsdesk-server/internal/logger"
	"github.com/newsdeskapp/newsdesk-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideIdentityVerifier)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideArticleService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvidePublisherService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is
// listening. Invocation order guarantees the store opens before the HTTP
// server registers its listener.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*identity.TokenService](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	_ = do.MustInvoke[*service.ArticleService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.PublisherService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
