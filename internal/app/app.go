package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"ytstats/internal/config"
	apierrors "ytstats/internal/errors"
	"ytstats/internal/infrastructure"
	customMiddleware "ytstats/internal/middleware"
	"ytstats/internal/services"
	handlers "ytstats/internal/transport/http"
	"ytstats/pkg/contracts"
)

// AppName is reported in startup logs
const AppName = "ytstats - YouTube channel statistics"

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.QueryMetrics
	DatasetService *services.DatasetService
	HealthService  *services.HealthService
	ErrorHandler   *apierrors.ErrorHandler
}

// NewApplication wires the process-wide logger, telemetry, the dataset and
// the HTTP server. A dataset that fails to load is fatal.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return newApplication(infrastructure.EnsureTraceID(context.Background()), cfg, logger)
}

func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("source", cfg.Dataset.SourcePath))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateQueryMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create query metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(ctx); err != nil {
		if shutdownErr := otelProviders.Shutdown(ctx); shutdownErr != nil {
			logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", shutdownErr.Error()))
		}
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices loads the dataset and builds the services on top of it
func (a *Application) initializeServices(ctx context.Context) error {
	datasetService, err := services.LoadDatasetService(ctx, a.Config.Dataset, a.Logger,
		services.WithQueryLimits(a.Config.Query),
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithMetrics(a.Metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	a.DatasetService = datasetService

	a.HealthService = services.NewHealthService(datasetService, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		// Ordering: RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		a.setupAPIRoutes(r)
	})

	// Prometheus scrape endpoint, outside the middleware group
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Compress(5))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		validator := customMiddleware.NewValidator(a.Logger)

		datasetHandler := handlers.NewDatasetHandler(a.DatasetService, validator, a.Logger, a.ErrorHandler)
		r.Mount("/dataset", datasetHandler.Routes())

		reportHandler := handlers.NewReportHandler(a.DatasetService, validator, a.Logger, a.ErrorHandler)
		r.Mount("/reports", reportHandler.Routes())
	})
}

// getCORSConfig returns CORS configuration
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Starting HTTP server",
			slog.String("address", a.Server.Addr),
			slog.Int("channels", a.DatasetService.GetCleanedDataset().Len()),
			slog.String("level", a.Config.Logging.Level))

		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(gctx, "Shutdown requested")
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
