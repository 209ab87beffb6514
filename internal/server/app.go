// Package server wires configuration, storage, services and the HTTP router
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/joyal-jij0/pragati/internal/auth"
	"github.com/joyal-jij0/pragati/internal/config"
	"github.com/joyal-jij0/pragati/internal/inference"
	"github.com/joyal-jij0/pragati/internal/logging"
	"github.com/joyal-jij0/pragati/internal/migrations"
	"github.com/joyal-jij0/pragati/internal/schemes"
	"github.com/joyal-jij0/pragati/internal/server/httpapi"
	"github.com/joyal-jij0/pragati/internal/uploads"
	"github.com/joyal-jij0/pragati/internal/users"
	"github.com/joyal-jij0/pragati/internal/weather"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg    *config.Config
	logger logging.Logger
	db     *sql.DB
	rdb    *redis.Client
	srv    *http.Server
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := newPostgres(cfg.PG.DSN)
	if err != nil {
		return nil, fmt.Errorf("db init: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("redis init: %w", err)
	}

	codec, err := auth.NewTokenCodec(cfg.Auth.SigningAlgorithm)
	if err != nil {
		if rdb != nil {
			rdb.Close()
		}
		db.Close()
		return nil, err
	}

	authSvc := auth.NewService(
		users.NewPostgresRepository(db),
		auth.NewPasswordHasher(),
		auth.NewTokenIssuer(codec, cfg.Auth),
		auth.NewTokenVerifier(codec, cfg.Auth),
		logger,
	)

	// A typed nil must not end up behind the interface, or the client would
	// take the cache branch and dereference it.
	var weatherCache weather.ResponseCache
	if rdb != nil {
		weatherCache = weather.NewCache(rdb, cfg.Redis.CacheTTL)
	}

	router := httpapi.NewRouter(logger, httpapi.Services{
		Auth:    authSvc,
		Weather: weather.NewClient(cfg.Weather, weatherCache, logger),
		Schemes: schemes.NewClient(cfg.Schemes, logger),
		Uploads: uploads.NewStore(cfg.S3),
		Models:  inference.NewClient(cfg.Inference, logger),
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, logger: logger, db: db, rdb: rdb, srv: srv}, nil
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "starting http server", "addr", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close(ctx)
		return err
	case <-ctx.Done():
	}

	a.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := a.srv.Shutdown(shutdownCtx)

	a.close(shutdownCtx)
	return err
}

func (a *App) close(ctx context.Context) {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn(ctx, "redis close failed", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn(ctx, "db close failed", "error", err)
	}
}

func newPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("pg open: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return db, nil
}

// newRedis returns nil when no address is configured; callers treat a nil
// client as "no cache".
func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
