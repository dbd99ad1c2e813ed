// Scored serves the globe's score API: best scores, a leaderboard, the last
// clicked location and an optional GeoIP lookup.
//
// SCORE_BACKEND selects memory (default), redis (REDIS_HOST, REDIS_PORT,
// REDIS_PASS, REDIS_DB) or postgres (PG_DSN). GEOIP_DB enables /api/locate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phanxgames/globe/config"
	"github.com/phanxgames/globe/internal/logger"
	"github.com/phanxgames/globe/score"
)

func main() {
	log := logger.Setup()
	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	cfg.ServerFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("store", "backend", cfg.Backend, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	var locator score.Locator
	if cfg.GeoIPDB != "" {
		l, err := score.OpenGeoIP(cfg.GeoIPDB)
		if err != nil {
			log.Warn("geoip disabled", "err", err)
		} else {
			defer l.Close()
			locator = l
			log.Info("geoip enabled", "path", cfg.GeoIPDB)
		}
	}

	h := score.NewHandler(store, locator, log)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           score.NewRouter(h, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "err", err)
		}
	}()

	log.Info("listening", "addr", server.Addr, "backend", cfg.Backend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server", "err", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (score.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		rdb := score.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		s := score.NewRedisStore(rdb)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := s.Ping(pingCtx); err != nil {
			log.Warn("redis ping failed", "addr", cfg.RedisAddr, "err", err)
		} else {
			log.Info("redis connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		}
		return s, func() { _ = rdb.Close() }, nil
	case config.BackendPostgres:
		db, err := score.OpenPostgres(cfg.PGDSN)
		if err != nil {
			return nil, nil, err
		}
		s, err := score.NewPostgresStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("postgres connected")
		return s, func() { _ = db.Close() }, nil
	case config.BackendMemory:
		return score.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
