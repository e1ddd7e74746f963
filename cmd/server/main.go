package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/silvertrading/billing/internal/config"
	"github.com/silvertrading/billing/internal/db"
	"github.com/silvertrading/billing/internal/logger"
	"github.com/silvertrading/billing/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func withLogging(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		os.Exit(1)
	}
	log := logger.WithComponent("server")

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if *migrateOnlyFlag {
		log.Info().Msg("migrations completed; exiting as requested")
		return
	}

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting server")

	handler := server.New(dbConn, log)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: withLogging(log, handler)}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}
