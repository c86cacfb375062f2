// Package container wires the application with samber/do. Each *Package function
// registers the providers for one concern; cmd/server composes them.
package container

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jaevor/go-nanoid"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/health"
	"github.com/serroba/shortlink/internal/listing"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/resolution"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
)

type Options struct {
	Port            int    `default:"8888"    help:"Port to listen on"                                      short:"p"`
	BaseURL         string `help:"Origin for short links; empty uses the request origin"  short:"b"`
	CodeLength      int    `default:"6"       help:"Length of generated short codes"                        short:"c"`
	MaxCodeAttempts int    `default:"100"     help:"Generated codes tried before giving up"`
	DefaultValidity int    `default:"30"      help:"Validity in minutes when a request carries none"`
	RedirectDelayMs int    `default:"1000"    help:"Milliseconds the redirecting view is shown"`
	LogFormat       string `default:"console" help:"Log format: console or json"`
	LogLevel        string `default:"info"    help:"Log level: debug, info, warn or error"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat, opts.LogLevel)
	})
}

// RegistryPackage provides the in-memory registry. Only the registry owner writes to it.
func RegistryPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*store.MemoryStore, error) {
		return store.NewMemoryStore(), nil
	})
}

// MessagingPackage provides the in-process bus, the expiry publish function and the
// consumer group applying expiry events to the registry.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return messaging.NewInProcessBus(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[shortener.ExpiryObservedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[shortener.ExpiryObservedEvent](
			group.Publisher(), shortener.TopicExpiryObserved,
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		bus := do.MustInvoke[*gochannel.GoChannel](i)
		logger := do.MustInvoke[*zap.Logger](i)
		registry := do.MustInvoke[*store.MemoryStore](i)

		group := messaging.NewConsumerGroup(bus, logger)
		group.Add(messaging.NewConsumer(
			bus,
			shortener.TopicExpiryObserved,
			shortener.RemoveExpiredHandler(registry),
			logger,
		))

		return group, nil
	})
}

// ShortenerPackage provides the creation service, the resolver and the lister.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		generator, err := nanoid.Standard(opts.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("code generator: %w", err)
		}

		return shortener.NewService(
			do.MustInvoke[*store.MemoryStore](i),
			generator,
			shortener.WithMaxAttempts(opts.MaxCodeAttempts),
			shortener.WithDefaultValidity(int64(opts.DefaultValidity)),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*resolution.Resolver, error) {
		opts := do.MustInvoke[*Options](i)

		return resolution.NewResolver(
			do.MustInvoke[*store.MemoryStore](i),
			do.MustInvoke[messaging.Publish[shortener.ExpiryObservedEvent]](i),
			time.Now,
			time.Duration(opts.RedirectDelayMs)*time.Millisecond,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*listing.Lister, error) {
		return listing.NewLister(do.MustInvoke[*store.MemoryStore](i), time.Now), nil
	})
}

// NewAPIConfig keeps huma's own routes under /api so that only "/stats" is
// shadowed among the root-level short codes.
func NewAPIConfig() huma.Config {
	config := huma.DefaultConfig("Short Links", "1.0.0")
	config.OpenAPIPath = "/api/openapi"
	config.DocsPath = "/api/docs"
	config.SchemasPath = "/api/schemas"

	return config
}

// HTTPPackage provides the router and the huma API. Invoking the API registers every route.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(chimw.RequestID)
		router.Use(middleware.Logger(do.MustInvoke[*zap.Logger](i)))
		router.Use(chimw.Recoverer)
		router.Use(middleware.RequestMeta)

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		service := do.MustInvoke[*shortener.Service](i)
		resolver := do.MustInvoke[*resolution.Resolver](i)
		lister := do.MustInvoke[*listing.Lister](i)

		api := humachi.New(router, NewAPIConfig())

		handlers.RegisterRoutes(api, handlers.NewLinkHandler(service, resolver, lister, opts.BaseURL, logger))
		health.RegisterRoutes(api, health.NewHandler(do.MustInvoke[*store.MemoryStore](i)))
		handlers.RegisterPages(router, handlers.NewPageHandler(service, resolver, lister, opts.BaseURL, logger))

		return api, nil
	})
}
