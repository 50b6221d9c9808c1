package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaorh/plataforma/internal/api/middleware"
	"github.com/gestaorh/plataforma/internal/auth"
	"github.com/gestaorh/plataforma/internal/config"
	"github.com/gestaorh/plataforma/internal/gateway"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("gateway encerrado com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.LoadGateway()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	table, err := gateway.NewTable(cfg)
	if err != nil {
		return fmt.Errorf("rotas: %w", err)
	}
	fwd := gateway.NewForwarder(table, cfg.ProxyTimeout, cfg.IsProduction())

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		limiter = limiter.WithStats(middleware.NewRedisStats(redisClient, "gateway:ratelimit", 24*time.Hour))
	}

	handler := gateway.NewRouter(cfg, jwtManager, limiter, fwd)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("gateway ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
