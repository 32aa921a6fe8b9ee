// Package app wires configuration, services, session state and the HTTP
// surface into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"praxiscli/internal/config"
	"praxiscli/internal/infrastructure"
	custommw "praxiscli/internal/middleware"
	"praxiscli/internal/services"
	"praxiscli/internal/session"
	handlers "praxiscli/internal/transport/http"
	ws "praxiscli/internal/websocket"
	"praxiscli/pkg/contracts"
)

const sweepInterval = 15 * time.Minute

// Application is the main application container.
type Application struct {
	Config   *config.Config
	Router   *chi.Mux
	Server   *http.Server
	Logger   *slog.Logger
	Store    *session.Store
	Hub      *ws.Hub
	Analysis *services.AnalysisService
	Registry *prometheus.Registry
	Metrics  *custommw.Metrics
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", contracts.GetVersionString()),
		slog.Int("port", cfg.Server.Port))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &Application{
		Config:   cfg,
		Logger:   logger,
		Store:    session.NewStore(cfg.Server.SessionTTL),
		Hub:      ws.NewHub(logger),
		Analysis: services.NewAnalysisService(cfg.Analysis, logger),
		Registry: registry,
		Metrics:  custommw.NewMetrics(registry),
	}
	app.setupRouter()
	app.setupServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.CORS(a.Config.Security.AllowedOrigins))
	r.Use(a.Metrics.Handler)

	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	health := handlers.NewHealthHandler()
	upload := handlers.NewUploadHandler(a.Analysis, a.Store, a.Hub, a.Metrics, a.Config.Upload.MaxSizeMB, a.Logger)
	tariffs := handlers.NewTariffsHandler(a.Analysis, a.Store, a.Hub, a.Logger)
	billing := handlers.NewBillingHandler(a.Analysis, a.Store, a.Logger)
	physicians := handlers.NewPhysiciansHandler(a.Analysis, a.Store, a.Logger)
	sessions := handlers.NewSessionHandler(a.Store, a.Logger)

	r.Get("/healthz", health.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	r.Get("/ws", a.Hub.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Post("/upload", upload.Upload)
		r.Route("/tariffs", tariffs.RegisterRoutes)
		r.Route("/billing", billing.RegisterRoutes)
		r.Route("/physicians", physicians.RegisterRoutes)
		r.Route("/session", sessions.RegisterRoutes)
	})

	a.Router = r
}

func (a *Application) setupServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the server and blocks until shutdown. SIGINT and SIGTERM
// trigger a graceful drain bounded by the configured shutdown timeout.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Hub.Close()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// sweepSessions drops expired sessions on a fixed interval so abandoned
// datasets do not accumulate.
func (a *Application) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := a.Store.Sweep(now); removed > 0 {
				a.Logger.Info("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}
