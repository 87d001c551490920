package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/km-arc/go-ioc/framework/admin"
	"github.com/km-arc/go-ioc/framework/config"
	"github.com/km-arc/go-ioc/framework/container"
	"github.com/km-arc/go-ioc/framework/logging"
	"github.com/km-arc/go-ioc/framework/manifest"
	"github.com/km-arc/go-ioc/framework/providers"
	"github.com/km-arc/go-ioc/framework/routing"
)

const shutdownTimeout = 5 * time.Second

// Application wires configuration, logging, the reflection container, its
// providers and the admin API. It embeds the Container so callers can
// Inject and Synthesize on it directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Config    *config.Config
	Log       logr.Logger
	Router    *routing.Router
	// Admin is nil when IOC_ADMIN_PREFIX is empty.
	Admin *admin.Handler
}

// New creates and wires the application. Types and Methods a manifest may
// name are looked up in catalog, which may be nil when no manifest is used.
//
//	application, err := app.New(catalog)
//	application.Register(&HolidayProvider{})
//	err = application.Run(ctx)
func New(catalog *manifest.Catalog, envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		Verbosity:   cfg.Log.Verbosity,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	log = log.WithName(cfg.App.Name)

	c := container.New(container.WithLogger(log.WithName("container")))
	registry := container.NewProviderRegistry(c)

	a := &Application{
		Container: c,
		Providers: registry,
		Config:    cfg,
		Log:       log,
		Router:    routing.New(log.WithName("http")),
	}

	if cfg.IoC.Manifest != "" {
		injections, err := loadManifest(cfg.IoC.Manifest, catalog)
		if err != nil {
			return nil, err
		}
		registry.Register(&providers.ManifestServiceProvider{Injections: injections, Log: log})
	}
	registry.Register(&providers.ScopeServiceProvider{BootScope: cfg.IoC.BootScope, Log: log})

	if cfg.IoC.AdminPrefix != "" {
		a.Admin = admin.New(c, log)
		a.Router.Prefix(cfg.IoC.AdminPrefix, a.Admin.Routes)
	}
	return a, nil
}

func loadManifest(path string, catalog *manifest.Catalog) ([]container.Injection, error) {
	if catalog == nil {
		catalog = manifest.NewCatalog()
	}
	m, err := manifest.LoadFile(path)
	if err != nil {
		return nil, err
	}
	injections, err := m.Injections(catalog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return injections, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Handler returns the HTTP handler, booting the application first.
func (a *Application) Handler() http.Handler {
	if !a.Providers.Booted() {
		a.Boot()
	}
	return a.Router
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until ctx
// is done, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.Config.App.Port)
	if err != nil {
		return fmt.Errorf("listening: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("serving", "addr", ln.Addr().String(), "env", a.Config.App.Env, "admin", a.Config.IoC.AdminPrefix)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
