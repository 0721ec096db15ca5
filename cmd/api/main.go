// Package main is the entry point for the HOS logbook API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/fleetlog/hos-logbook/internal/config"
	"github.com/fleetlog/hos-logbook/internal/geocode"
	"github.com/fleetlog/hos-logbook/internal/handler"
	"github.com/fleetlog/hos-logbook/internal/middleware"
	"github.com/fleetlog/hos-logbook/internal/repo"
	"github.com/fleetlog/hos-logbook/internal/service"
	"github.com/fleetlog/hos-logbook/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.LoadFile(".env")
	if err != nil {
		// Default logger until the configured one exists.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		db := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(context.Background(), db)
		_ = db.Close()
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", applied)
	}

	// --- Geocoding --------------------------------------------------------
	// Literal coordinates and the gazetteer always resolve; OpenRouteService
	// joins the chain when a key is configured, behind Redis when available.
	chain := []geocode.Geocoder{geocode.NewGazetteer(geocode.DefaultPlaces)}
	if cfg.ORSAPIKey != "" {
		var remote geocode.Geocoder = geocode.NewORSGeocoder(cfg.ORSBaseURL, cfg.ORSAPIKey, nil)
		if rdb := newRedisClient(cfg.RedisURL); rdb != nil {
			defer rdb.Close()
			remote = geocode.NewRedisCache(rdb, remote, cfg.GeocodeCacheTTL)
		}
		chain = append(chain, remote)
	} else {
		slog.Info("ORS_API_KEY not set; geocoding limited to coordinates and known places")
	}
	resolver := geocode.NewResolver(chain...)

	// --- Services ---------------------------------------------------------
	driverRepo := repo.NewDriverRepo(pool)
	logRepo := repo.NewLogRepo(pool)

	srv := handler.NewServer(
		service.NewDriverService(driverRepo),
		service.NewLogService(logRepo, driverRepo, resolver),
		service.NewGPSService(resolver),
		service.NewExportService(driverRepo, logRepo),
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newRedisClient connects to url, or returns nil when url is empty or the
// server cannot be reached. The geocode cache is optional.
func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("invalid REDIS_URL; geocode cache disabled", "error", err)
		return nil
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable; geocode cache disabled", "error", err)
		_ = rdb.Close()
		return nil
	}
	slog.Info("geocode cache enabled", "addr", opts.Addr)
	return rdb
}
