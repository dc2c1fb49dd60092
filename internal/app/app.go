// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rantaucash/rantaucash-api/api/openapi"
	"github.com/rantaucash/rantaucash-api/internal/config"
	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/identity"
	"github.com/rantaucash/rantaucash-api/internal/identity/jwt"
	identitypostgres "github.com/rantaucash/rantaucash-api/internal/identity/postgres"
	"github.com/rantaucash/rantaucash-api/internal/notifications"
	notificationspostgres "github.com/rantaucash/rantaucash-api/internal/notifications/postgres"
	"github.com/rantaucash/rantaucash-api/internal/payments"
	paymentspostgres "github.com/rantaucash/rantaucash-api/internal/payments/postgres"
	"github.com/rantaucash/rantaucash-api/internal/pkg/ctxlog"
	"github.com/rantaucash/rantaucash-api/internal/pkg/httputil"
	"github.com/rantaucash/rantaucash-api/internal/pkg/metrics"
	"github.com/rantaucash/rantaucash-api/internal/pkg/postgres"
	"github.com/rantaucash/rantaucash-api/internal/pkg/telemetry"
	"github.com/rantaucash/rantaucash-api/internal/rooms"
	roomspostgres "github.com/rantaucash/rantaucash-api/internal/rooms/postgres"
	"github.com/rantaucash/rantaucash-api/internal/version"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// WelcomeMessage is the plaintext body of GET /.
const WelcomeMessage = "Welcome to the API!"

// App represents the application instance.
type App struct {
	config            *config.Config
	logger            *slog.Logger
	db                *pgxpool.Pool
	server            *http.Server
	metricsServer     *http.Server
	metricsCancel     context.CancelFunc
	telemetryShutdown telemetry.ShutdownFunc
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.UsesDefaultJWTSecret() {
		logger.Warn("JWT_SECRET is not set, signing tokens with the built-in default secret")
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		Key:             cfg.Database.Key,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	shutdownTracing, err := telemetry.Setup(context.Background(), telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version.Version,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		logger.Error("tracing disabled", "error", err)
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		metricsCancel:     metricsCancel,
		telemetryShutdown: shutdownTracing,
	}

	go app.collectDBMetrics(metricsCtx)

	router, err := app.setupRouter()
	if err != nil {
		db.Close()
		metricsCancel()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           otelhttp.NewHandler(router, cfg.Telemetry.ServiceName),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
		"version", version.Version,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	a.metricsCancel()

	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	if a.telemetryShutdown != nil {
		if err := a.telemetryShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}

	a.db.Close()

	return errors.Join(errs...)
}

func (a *App) collectDBMetrics(ctx context.Context) {
	metrics.RecordDBPoolMetrics(a.db)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordDBPoolMetrics(a.db)
		case <-ctx.Done():
			return
		}
	}
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter() (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(httputil.CORSConfig{
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		AllowedMethods: a.config.CORS.AllowedMethods,
		AllowedHeaders: a.config.CORS.AllowedHeaders,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(httputil.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		httputil.Text(w, http.StatusOK, WelcomeMessage)
	})
	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		_, _ = w.Write(openapi.Spec)
	})

	r.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(docsPage))
	})

	renderer, err := notifications.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create notification renderer: %w", err)
	}
	notificationsService := notifications.NewService(notificationspostgres.NewRepository(a.db), renderer)
	notificationsHandler := notifications.NewHandler(notificationsService)

	tokens := jwt.NewAuthenticator(jwt.Config{
		SecretKey:           a.config.JWTSecret(),
		AccessTokenDuration: a.config.JWT.AccessTokenDuration,
	})
	identityService := identity.NewService(identitypostgres.NewRepository(a.db), tokens, notificationsService)
	identityHandler := identity.NewHandler(identityService)

	roomsService := rooms.NewService(roomspostgres.NewRepository(a.db))
	roomsHandler := rooms.NewHandler(roomsService)

	paymentsService := payments.NewService(paymentspostgres.NewRepository(a.db), roomsService, notificationsService)
	paymentsHandler := payments.NewHandler(paymentsService)

	authLimiter := httputil.NewRateLimiter(httputil.RateLimitConfig{
		PerMinute: a.config.RateLimit.AuthPerMinute,
		Burst:     a.config.RateLimit.AuthBurst,
	})
	requireAuth := httputil.AuthMiddleware(identityService)
	requireAdmin := httputil.RequireRole(domain.RoleAdmin)

	r.Route("/api/users", func(r chi.Router) {
		identityHandler.RegisterRoutes(r, authLimiter.Middleware)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			identityHandler.RegisterProtectedRoutes(r)
		})
	})

	r.Route("/api/rooms", func(r chi.Router) {
		r.Use(requireAuth)
		roomsHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			roomsHandler.RegisterAdminRoutes(r)
		})
	})

	r.Route("/api/payments", func(r chi.Router) {
		r.Use(requireAuth)
		paymentsHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			paymentsHandler.RegisterAdminRoutes(r)
		})
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(requireAuth)
		notificationsHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			notificationsHandler.RegisterAdminRoutes(r)
		})
	})

	return r, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, version.Get())
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

const docsPage = `<!DOCTYPE html>
<html>
<head>
    <title>RantauCash API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
        SwaggerUIBundle({
            url: "/api/openapi.yaml",
            dom_id: '#swagger-ui',
            presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
            layout: "BaseLayout"
        });
    </script>
</body>
</html>`
