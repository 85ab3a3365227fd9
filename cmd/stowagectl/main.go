// Command stowagectl runs the cargo-stowage HTTP server.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/cargostow/stowage/internal/env"
	stowagehttp "github.com/cargostow/stowage/internal/http"
	"github.com/cargostow/stowage/internal/repo"
	"github.com/cargostow/stowage/internal/repo/memstore"
	"github.com/cargostow/stowage/internal/repo/redisstore"
	"github.com/cargostow/stowage/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	cfg := env.Load()

	store := newStore(cfg, log)

	ctx := context.Background()
	engine, err := service.New(ctx, log.Named("engine"), store, time.Now().UTC())
	if err != nil {
		log.Fatal("engine init failed", zap.Error(err))
	}

	router := stowagehttp.NewRouter(log.Named("http"), engine)

	httpserver := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 15,
		ErrorLog:       zap.NewStdLog(log.Named("http").WithOptions(zap.AddCallerSkip(1))),
	}

	log.Info("running HTTP server", zap.String("addr", cfg.HTTPAddr))
	if err := httpserver.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed", zap.Error(err))
	}
}

// newStore picks the Redis-backed store when STOWAGE_REDIS_ADDR is set,
// else falls back to the in-memory store (handy for local development
// and tests).
func newStore(cfg env.Config, log *zap.Logger) repo.Store {
	if !cfg.UseRedis {
		log.Info("using in-memory store")
		return memstore.New()
	}

	log.Info("using redis store", zap.String("addr", cfg.RedisAddr))
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return redisstore.New(rdb, log.Named("redis"))
}
