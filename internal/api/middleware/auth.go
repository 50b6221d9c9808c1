package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gestaorh/plataforma/internal/api"
	"github.com/gestaorh/plataforma/internal/auth"
)

type contextKey string

const (
	ContextKeySubject contextKey = "subject"
	ContextKeyEmail   contextKey = "email"
	ContextKeyRole    contextKey = "role"
)

// Cabeçalhos de identidade confiáveis, preenchidos apenas pelo gateway.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

// Auth valida o JWT de acesso no gateway e injeta a identidade no contexto
// e nos cabeçalhos confiáveis repassados aos serviços.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Identidade forjada pelo cliente nunca passa adiante.
			r.Header.Del(HeaderUserID)
			r.Header.Del(HeaderUserEmail)
			r.Header.Del(HeaderUserRole)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.WriteError(w, http.StatusUnauthorized, "Não autorizado - Token não fornecido", nil)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				api.WriteError(w, http.StatusUnauthorized, "Não autorizado - Token malformado", nil)
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					api.WriteError(w, http.StatusUnauthorized, "Não autorizado - Token expirado", nil)
					return
				}
				api.WriteError(w, http.StatusUnauthorized, "Não autorizado - Token inválido", nil)
				return
			}

			r.Header.Set(HeaderUserID, claims.Subject)
			r.Header.Set(HeaderUserEmail, claims.Email)
			r.Header.Set(HeaderUserRole, claims.Role)

			ctx := context.WithValue(r.Context(), ContextKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles garante que o papel autenticado esteja entre os permitidos.
func RequireRoles(allowed ...string) func(http.Handler) http.Handler {
	normalized := make([]string, 0, len(allowed))
	for _, role := range allowed {
		role = strings.ToLower(strings.TrimSpace(role))
		if role != "" {
			normalized = append(normalized, role)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := strings.ToLower(strings.TrimSpace(GetRole(r.Context())))
			for _, required := range normalized {
				if role == required {
					next.ServeHTTP(w, r)
					return
				}
			}

			api.WriteError(w, http.StatusForbidden, "Acesso proibido - Permissão insuficiente", nil)
		})
	}
}

// Identity lê os cabeçalhos confiáveis nos serviços de domínio, sem revalidar
// assinatura; a verificação acontece uma única vez no gateway.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if subject := r.Header.Get(HeaderUserID); subject != "" {
			ctx = context.WithValue(ctx, ContextKeySubject, subject)
		}
		if email := r.Header.Get(HeaderUserEmail); email != "" {
			ctx = context.WithValue(ctx, ContextKeyEmail, email)
		}
		if role := r.Header.Get(HeaderUserRole); role != "" {
			ctx = context.WithValue(ctx, ContextKeyRole, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSubject recupera o subject do contexto.
func GetSubject(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySubject).(string)
	return val
}

// GetEmail recupera o email do contexto.
func GetEmail(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyEmail).(string)
	return val
}

// GetRole recupera o papel do contexto.
func GetRole(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyRole).(string)
	return val
}
