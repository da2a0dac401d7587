// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/tanzim/portfolio-api/adapters/clock"
	apihttp "github.com/tanzim/portfolio-api/adapters/http"
	"github.com/tanzim/portfolio-api/adapters/idgen"
	"github.com/tanzim/portfolio-api/adapters/memory"
	"github.com/tanzim/portfolio-api/adapters/metrics"
	"github.com/tanzim/portfolio-api/adapters/mongo"
	"github.com/tanzim/portfolio-api/adapters/sqlite"
	apitls "github.com/tanzim/portfolio-api/adapters/tls"
	"github.com/tanzim/portfolio-api/app"
	"github.com/tanzim/portfolio-api/config"
	"github.com/tanzim/portfolio-api/domain/resource"
	"github.com/tanzim/portfolio-api/ports"
)

// Version is reported by /version. Set at build time with -ldflags.
var Version = "dev"

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	Store      ports.DocumentStore
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Registry   *resource.Registry

	// Prometheus registry owned by this app, so several apps can coexist
	// in one process.
	promRegistry *prometheus.Registry
	acme         *apitls.ACMEProvider
	challenge    *http.Server
	holder       *config.Holder
}

// Options provides optional configuration for application initialization.
type Options struct {
	// Output receives log lines. Defaults to stdout.
	Output io.Writer
	// Holder enables hot reload of logging.level when set.
	Holder *config.Holder
}

// New creates and initializes the application.
// A store that cannot be reached is fatal: the listener is never opened.
func New(cfg *config.Config) (*App, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates and initializes the application with custom options.
func NewWithOptions(cfg *config.Config, opts Options) (*App, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := setupLogger(cfg.Logging, opts.Output)

	logger.Info().
		Str("version", Version).
		Str("store", cfg.Store.Driver).
		Msg("initializing portfolio-api")

	a := &App{
		Logger:   logger,
		Config:   cfg,
		Registry: resource.DefaultRegistry(),
		holder:   opts.Holder,
	}

	if cfg.Metrics.Enabled {
		a.promRegistry = prometheus.NewRegistry()
		a.promRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.NewWithRegistry(a.promRegistry)
		logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	if err := a.initStore(); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	if err := a.initHTTPServer(); err != nil {
		a.closeStore()
		return nil, fmt.Errorf("init http server: %w", err)
	}

	if a.holder != nil {
		a.watchConfig()
	}

	return a, nil
}

func (a *App) initStore() error {
	cfg := a.Config.Store

	var store ports.DocumentStore
	switch cfg.Driver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()

		s, err := mongo.Connect(ctx, mongo.Options{
			URI:            cfg.MongoURI(),
			Database:       cfg.Database,
			AppName:        cfg.AppName,
			ConnectTimeout: cfg.ConnectTimeout,
		}, a.Logger)
		if err != nil {
			return err
		}
		store = s

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		store = sqlite.NewDocumentStore(db, idgen.ObjectID{})
		a.Logger.Info().Str("dsn", cfg.DSN).Msg("sqlite store initialized")

	case config.DriverMemory:
		store = memory.NewDocumentStore(idgen.ObjectID{})
		a.Logger.Warn().Msg("using in-memory store, data is lost on restart")

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if a.Metrics != nil {
		store = metrics.WrapStore(store, a.Metrics)
	}
	a.Store = store
	return nil
}

func (a *App) initHTTPServer() error {
	cfg := a.Config

	service := app.NewResourceService(a.Store, clock.Real{}, a.Logger)

	routerCfg := apihttp.RouterConfig{
		MetricsPath:    cfg.Metrics.Path,
		EnableOpenAPI:  cfg.OpenAPI.Enabled,
		LegacyRoutes:   cfg.Server.LegacyRoutesEnabled(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Version:        Version,
		RequestTimeout: cfg.Server.WriteTimeout,
		ErrorIDs:       idgen.UUID{},
	}
	if a.Metrics != nil {
		routerCfg.Metrics = a.Metrics
		routerCfg.MetricsHandler = promhttp.HandlerFor(a.promRegistry, promhttp.HandlerOpts{})
	}

	router := apihttp.NewRouter(service, a.Registry, a.Logger, routerCfg)

	a.HTTPServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Server.TLS.Enabled() {
		provider, err := apitls.NewACMEProvider(apitls.ACMEConfig{
			Domains:  cfg.Server.TLS.Domains,
			CacheDir: cfg.Server.TLS.CacheDir,
		}, a.Logger)
		if err != nil {
			return err
		}
		a.acme = provider
		a.HTTPServer.TLSConfig = provider.TLSConfig()
		a.challenge = &http.Server{
			Addr:        net.JoinHostPort(cfg.Server.Host, "80"),
			Handler:     provider.HTTPHandler(nil),
			ReadTimeout: cfg.Server.ReadTimeout,
		}
	}

	a.Logger.Info().
		Int("resources", a.Registry.Len()).
		Bool("legacy_routes", routerCfg.LegacyRoutes).
		Msg("routes mounted")
	return nil
}

func (a *App) watchConfig() {
	a.holder.OnChange(func(cfg *config.Config) {
		if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
		if a.Metrics != nil {
			a.Metrics.ConfigReloads.Inc()
		}
	})
	a.holder.OnError(func(error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})
	if err := a.holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable, SIGHUP only")
	}
	a.holder.WatchSignals()
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and blocks until ctx is done or the
// server fails, then shuts down gracefully.
func (a *App) RunContext(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Bool("tls", a.acme != nil).
			Msg("starting http server")

		var err error
		if a.acme != nil {
			err = a.HTTPServer.ListenAndServeTLS("", "")
		} else {
			err = a.HTTPServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	if a.challenge != nil {
		go func() {
			if err := a.challenge.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("acme challenge listener: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		a.Shutdown()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.Logger.Info().Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	if a.holder != nil {
		a.holder.Stop()
		a.holder = nil
	}

	if a.challenge != nil {
		if err := a.challenge.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("acme challenge shutdown error")
		}
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	a.closeStore()

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func (a *App) closeStore() {
	if a.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()
	if err := a.Store.Close(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("store close error")
	}
	a.Store = nil
}

func (a *App) shutdownTimeout() time.Duration {
	if d := a.Config.Server.ShutdownTimeout; d > 0 {
		return d
	}
	return 15 * time.Second
}

func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(out).With().Timestamp().Logger()
}
