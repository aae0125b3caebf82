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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"go-life-planner/internal/config"
	"go-life-planner/internal/database"
	"go-life-planner/internal/handler"
	"go-life-planner/internal/metrics"
	"go-life-planner/internal/middleware"
	"go-life-planner/internal/repository"
	"go-life-planner/internal/router"
	"go-life-planner/internal/service"
)

type App struct {
	server          *http.Server
	shutdownTimeout time.Duration
	cleanupFuncs    []func()
}

// Store is the persistence backend chosen by STORE_BACKEND.
type Store struct {
	UnitOfWork repository.UnitOfWork
	Health     func(ctx context.Context) error
	Close      func()
}

// OpenStore connects the configured backend. Postgres gets its schema
// ensured before the store is handed out.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.StoreBackend == config.BackendMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		return &Store{
			UnitOfWork: repository.NewMemoryDB(),
			Health:     func(context.Context) error { return nil },
			Close:      func() {},
		}, nil
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.Options{
		MaxConns:             cfg.DBMaxConns,
		MinConns:             cfg.DBMinConns,
		RetryInitialInterval: cfg.DBRetryInitialInterval,
		RetryMaxElapsed:      cfg.DBRetryMaxElapsed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	return &Store{
		UnitOfWork: repository.NewPostgresUnitOfWork(db),
		Health:     db.Health,
		Close:      db.Close,
	}, nil
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := OpenStore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	validator, err := service.NewTokenValidator(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize token validator: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(validator)

	var (
		recycleMetrics *metrics.Metrics
		gatherer       prometheus.Gatherer
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recycleMetrics = metrics.New(reg)
		gatherer = reg
	}

	recycleService := service.NewRecycleService(store.UnitOfWork, recycleMetrics)
	entityService := service.NewEntityService(store.UnitOfWork, recycleService)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Recycle: handler.NewRecycleHandler(recycleService),
		Entity:  handler.NewEntityHandler(entityService),
		Docs:    handler.NewDocsHandler(),
		Health:  healthHandler(store.Health),
		Metrics: gatherer,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		cleanupFuncs:    []func(){store.Close},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	// Connections are drained before the pool goes away.
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := check(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
