package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestaorh/plataforma/internal/api"
)

// Recover garante resposta sanitizada em caso de panic.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic recuperado")
				api.WriteError(w, http.StatusInternalServerError, "erro interno", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
