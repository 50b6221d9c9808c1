package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gestaorh/plataforma/internal/api"
	"github.com/gestaorh/plataforma/internal/api/middleware"
	"github.com/gestaorh/plataforma/internal/auth"
	"github.com/gestaorh/plataforma/internal/config"
)

// NewRouter devolve o roteador do gateway configurado.
func NewRouter(cfg *config.Gateway, jwtManager *auth.JWTManager, limiter *middleware.RateLimiter, fwd *Forwarder) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "api-gateway"})
	})

	r.Route("/api", func(routes chi.Router) {
		routes.Use(middleware.IPRateLimit(limiter))
		routes.Use(middleware.Auth(jwtManager))

		// Processamento de folha exige papel elevado; demais rotas só exigem
		// credencial válida.
		payrollGate := middleware.RequireRoles(cfg.PayrollRoles...)
		routes.Handle("/payroll", payrollGate(fwd))
		routes.Handle("/payroll/*", payrollGate(fwd))

		routes.Handle("/*", fwd)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteError(w, http.StatusNotFound, "rota não encontrada", nil)
	})

	return r
}
