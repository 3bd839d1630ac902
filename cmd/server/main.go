package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourorg/freehold/internal/handler"
	"github.com/yourorg/freehold/internal/identity"
	"github.com/yourorg/freehold/internal/infrastructure/logger"
	"github.com/yourorg/freehold/internal/mail"
	"github.com/yourorg/freehold/internal/observability/metrics"
	"github.com/yourorg/freehold/internal/observability/tracing"
	"github.com/yourorg/freehold/internal/repository"
	"github.com/yourorg/freehold/internal/security/audit"
	"github.com/yourorg/freehold/internal/security/middleware"
	"github.com/yourorg/freehold/internal/security/ratelimit"
	"github.com/yourorg/freehold/internal/service"
	"github.com/yourorg/freehold/pkg/config"
	"github.com/yourorg/freehold/pkg/database"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting FreeHold server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing (no-op unless an OTLP endpoint is configured)
	shutdownTracing, err := tracing.Init(ctx, log, "freehold", cfg.Environment, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Database
	pool, err := database.NewConnectionPool(ctx, &database.Config{
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		Database:        cfg.DBName,
		SSLMode:         cfg.DBSSLMode,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.EnsureSchema(ctx); err != nil {
		log.Error("failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. External collaborators, configured explicitly from cfg
	provider := identity.NewProvider(identity.Config{
		KeysURL:    cfg.IdentityKeysURL,
		Issuer:     cfg.IdentityIssuer,
		AdminURL:   cfg.IdentityAdminURL,
		APIKey:     cfg.IdentityAPIKey,
		KeyRefresh: cfg.IdentityKeyRefresh,
		HTTPClient: &http.Client{Timeout: cfg.IdentityHTTPTimeout},
	}, log)

	var mailer mail.Mailer
	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		mailer = mail.NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, log)
	} else {
		mailer = mail.NewNoopMailer(log)
	}

	// 6. Store and services
	store := repository.NewPostgresStore(pool.GetDB(), log)
	tenantService := service.NewTenantService(store, log)
	propertyService := service.NewPropertyService(store, log)
	authService := service.NewAuthService(store.Users(), provider, provider, mailer, cfg.MailFrom, log)

	// 7. Handlers
	auditLogger := audit.NewLogger(log)
	tenantsHandler := handler.NewTenantsHandler(tenantService, auditLogger, log)
	propertiesHandler := handler.NewPropertiesHandler(propertyService, log)
	authHandler := handler.NewAuthHandler(authService, log)
	healthHandler := handler.NewHealthHandler(pool, log)

	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// 8. Routes
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /api/tenants", tenantsHandler.Create)
	mux.HandleFunc("GET /api/tenants", tenantsHandler.List)
	mux.HandleFunc("DELETE /api/tenants/{id}", tenantsHandler.Remove)
	mux.HandleFunc("POST /api/properties", propertiesHandler.Create)
	mux.HandleFunc("GET /api/properties", propertiesHandler.List)
	mux.HandleFunc("GET /api/properties/{id}", propertiesHandler.Get)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	// Metrics wrap the mux directly so the path label carries the matched
	// route pattern.
	instrumentedMux := metrics.HTTPMetricsMiddleware(mux)

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		instrumentedMux.ServeHTTP(w, r)
	})

	// Chain middleware: request id -> auth -> rate limit -> content type -> CORS -> metrics
	rootHandler := middleware.RequestIDMiddleware(log)(
		middleware.AuthMiddleware(provider, log)(
			middleware.RateLimitMiddleware(rateLimiter, log)(
				middleware.ValidateJSONContentType(log)(handlerWithCORS),
			),
		),
	)

	// 9. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(rootHandler, "http.server"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("identity_issuer", cfg.IdentityIssuer),
		slog.Float64("rate_limit_rps", cfg.RateLimitRPS),
		slog.Int("rate_limit_burst", cfg.RateLimitBurst),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	rateLimiter.Stop()
	log.Info("server stopped")
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
