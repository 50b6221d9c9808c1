package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaorh/plataforma/internal/api"
	"github.com/gestaorh/plataforma/internal/api/middleware"
	"github.com/gestaorh/plataforma/internal/benefit"
	"github.com/gestaorh/plataforma/internal/config"
	"github.com/gestaorh/plataforma/internal/db"
	"github.com/gestaorh/plataforma/internal/lookup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("benefits-service encerrado com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.LoadService("3002")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	typeRepo := benefit.NewTypeRepository(pool)
	employeeRepo := benefit.NewEmployeeRepository(pool)
	checker := lookup.NewClient(cfg.WorkersURL, cfg.BenefitsURL, cfg.LookupTimeout)

	typeSvc := benefit.NewTypeService(typeRepo)
	employeeSvc := benefit.NewEmployeeService(employeeRepo, typeRepo, checker)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(middleware.Identity)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "UP",
			"service": "benefits-service",
		})
	})
	r.Route("/api/benefit-types", benefit.NewTypeHandler(typeSvc).RegisterRoutes)
	r.Route("/api/employee-benefits", benefit.NewEmployeeHandler(employeeSvc).RegisterRoutes)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("benefits-service ouvindo em :%d", cfg.Port)
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
