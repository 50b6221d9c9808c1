package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestaorh/plataforma/internal/api"
	"github.com/gestaorh/plataforma/internal/api/middleware"
	"github.com/gestaorh/plataforma/internal/auth"
	"github.com/gestaorh/plataforma/internal/config"
)

const testSecret = "segredo-de-teste-com-32-caracteres!!"

type recordedRequest struct {
	path   string
	userID string
	email  string
	role   string
}

func newGatewayUnderTest(t *testing.T, backendURL string) (http.Handler, *auth.JWTManager) {
	t.Helper()

	cfg := &config.Gateway{
		Env:          "test",
		JWTSecret:    testSecret,
		WorkersURL:   backendURL,
		BenefitsURL:  backendURL,
		PayrollURL:   backendURL,
		DocumentsURL: backendURL,
		RateLimit:    config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		ProxyTimeout: 2 * time.Second,
		PayrollRoles: []string{"admin", "rh"},
	}

	table, err := NewTable(cfg)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	fwd := NewForwarder(table, cfg.ProxyTimeout, false)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Hour)

	return NewRouter(cfg, jwtManager, limiter, fwd), jwtManager
}

func recordingBackend(t *testing.T, got *[]recordedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = append(*got, recordedRequest{
			path:   r.URL.Path,
			userID: r.Header.Get(middleware.HeaderUserID),
			email:  r.Header.Get(middleware.HeaderUserEmail),
			role:   r.Header.Get(middleware.HeaderUserRole),
		})
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorEnvelope {
	t.Helper()
	var env api.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("corpo não é envelope JSON: %v", err)
	}
	return env
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	var hits []recordedRequest
	backend := recordingBackend(t, &hits)
	defer backend.Close()

	gw, _ := newGatewayUnderTest(t, backend.URL)

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/workers", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "Não autorizado - Token não fornecido" {
		t.Errorf("mensagem = %q", env.Message)
	}
	if len(hits) != 0 {
		t.Error("requisição sem token não deveria chegar ao backend")
	}
}

func TestGatewayRejectsMalformedAndInvalidTokens(t *testing.T) {
	var hits []recordedRequest
	backend := recordingBackend(t, &hits)
	defer backend.Close()

	gw, _ := newGatewayUnderTest(t, backend.URL)

	cases := []struct {
		header  string
		message string
	}{
		{"Token abc", "Não autorizado - Token malformado"},
		{"Bearer nao-e-um-jwt", "Não autorizado - Token inválido"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
		req.Header.Set("Authorization", tc.header)
		rec := httptest.NewRecorder()
		gw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, esperado 401", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Message != tc.message {
			t.Errorf("mensagem = %q, esperada %q", env.Message, tc.message)
		}
	}
	if len(hits) != 0 {
		t.Error("token inválido não deveria chegar ao backend")
	}
}

func TestGatewayRejectsExpiredToken(t *testing.T) {
	var hits []recordedRequest
	backend := recordingBackend(t, &hits)
	defer backend.Close()

	gw, _ := newGatewayUnderTest(t, backend.URL)
	expired := auth.NewJWTManager(testSecret, -time.Minute)
	token, err := expired.GenerateAccessToken("u1", "u1@empresa.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "Não autorizado - Token expirado" {
		t.Errorf("mensagem = %q", env.Message)
	}
}

func TestGatewayForwardsIdentityHeaders(t *testing.T) {
	var hits []recordedRequest
	backend := recordingBackend(t, &hits)
	defer backend.Close()

	gw, jwtManager := newGatewayUnderTest(t, backend.URL)
	token, err := jwtManager.GenerateAccessToken("u1", "u1@empresa.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	// Identidade forjada pelo cliente tem que ser descartada.
	req.Header.Set(middleware.HeaderUserID, "atacante")
	req.Header.Set(middleware.HeaderUserRole, "admin")
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}
	if len(hits) != 1 {
		t.Fatalf("backend recebeu %d requisições, esperada 1", len(hits))
	}
	if hits[0].userID != "u1" || hits[0].email != "u1@empresa.com" || hits[0].role != "user" {
		t.Errorf("identidade repassada = %+v, esperada a do token", hits[0])
	}
}

func TestGatewayPayrollRequiresRole(t *testing.T) {
	var hits []recordedRequest
	backend := recordingBackend(t, &hits)
	defer backend.Close()

	gw, jwtManager := newGatewayUnderTest(t, backend.URL)

	userToken, err := jwtManager.GenerateAccessToken("u1", "u1@empresa.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/payroll/process", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperado 403", rec.Code)
	}
	if len(hits) != 0 {
		t.Error("papel sem permissão não deveria chegar ao backend")
	}

	rhToken, err := jwtManager.GenerateAccessToken("u2", "rh@empresa.com", "rh")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/payroll/process", nil)
	req.Header.Set("Authorization", "Bearer "+rhToken)
	rec = httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200 para papel rh", rec.Code)
	}
	if len(hits) != 1 || hits[0].path != "/api/payroll/process" {
		t.Errorf("backend deveria receber a rota de folha, obtido %+v", hits)
	}
}

func TestGatewayHealthIsPublic(t *testing.T) {
	gw, _ := newGatewayUnderTest(t, "http://localhost:0")

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}
}
