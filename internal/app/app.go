package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"volcanotrends/internal/charts"
	"volcanotrends/internal/config"
	"volcanotrends/internal/dataprocessing"
	apierrors "volcanotrends/internal/errors"
	"volcanotrends/internal/infrastructure"
	custommw "volcanotrends/internal/middleware"
	"volcanotrends/internal/services"
	handlers "volcanotrends/internal/transport/http"
	"volcanotrends/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	Dashboard     *services.DashboardService
	Health        *services.HealthService
	FrontendFS    fs.FS // Embedded frontend filesystem

	loader   services.DatasetLoader
	serveErr chan error
}

// Option customizes an Application before its router is built
type Option func(*Application)

// WithDatasetLoader replaces the loader built from the dataset configuration
func WithDatasetLoader(loader services.DatasetLoader) Option {
	return func(a *Application) { a.loader = loader }
}

// NewApplication wires every component for cfg. frontendFS may be nil, in
// which case only the API is served.
func NewApplication(cfg *config.Config, logger *slog.Logger, frontendFS fs.FS, opts ...Option) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("dataset_source", cfg.Dataset.Source))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		FrontendFS:    frontendFS,
		serveErr:      make(chan error, 1),
	}
	for _, opt := range opts {
		opt(app)
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	if a.loader == nil {
		a.loader = dataprocessing.NewLoader(a.Config.Dataset, a.Logger, a.Metrics)
	}
	renderer := charts.NewRenderer(a.Logger, a.Metrics)

	a.Dashboard = services.NewDashboardService(
		a.loader,
		renderer,
		dataprocessing.OptionsFromConfig(a.Config.Insights),
		a.Logger,
		a.Metrics,
	)
	a.Health = services.NewHealthService(contracts.Version, contracts.BuildTime, a.Dashboard, a.Logger)
}

// setupRouter configures the HTTP router with all routes.
// Middleware order: RequestID, RealIP, OTel, Logger, Recoverer, then
// response headers, limits and compression.
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(errorHandler))
	r.Use(custommw.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			errorHandler,
		).Handler)
	}

	r.Use(custommw.Compress(5))

	// Set before mounting so sub-routers inherit them
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r, errorHandler)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	if a.FrontendFS != nil {
		frontend := handlers.NewFrontendHandler(a.FrontendFS, a.Logger, errorHandler)
		r.Method(http.MethodGet, "/*", frontend)
		r.Method(http.MethodHead, "/*", frontend)
	} else {
		a.Logger.Warn("Frontend filesystem not available, serving API only")
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger, errorHandler))

		healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		r.Mount("/dashboard", handlers.NewDashboardHandler(a.Dashboard, a.Logger, errorHandler).Routes())

		defaultSize := charts.Size{Width: a.Config.Charts.Width, Height: a.Config.Charts.Height}
		r.Mount("/charts", handlers.NewChartHandler(a.Dashboard, defaultSize, a.Logger, errorHandler).Routes())

		r.Mount("/export", handlers.NewExportHandler(a.Dashboard, a.Logger, errorHandler).Routes())

		r.Post("/logs", handlers.NewClientLogHandler(a.Logger, errorHandler).Handle)
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start loads the dataset and starts serving. A dataset that cannot be
// loaded even after the fallback policy is applied is fatal.
func (a *Application) Start(ctx context.Context) error {
	info, err := a.Dashboard.Load(ctx)
	if err != nil {
		return fmt.Errorf("initial dataset load: %w", err)
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			a.serveErr <- err
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)),
		slog.String("dataset_source", string(info.Source)),
		slog.Int("records", info.Records),
		slog.Bool("synthetic", info.Synthetic))
	return nil
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
	return nil
}

// Run runs the application until ctx is done, an interrupt arrives or the
// server fails.
func (a *Application) Run(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	case serveErr = <-a.serveErr:
	}

	// Shutdown gets its own deadline even when ctx is already cancelled.
	if err := a.Stop(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	return serveErr
}
