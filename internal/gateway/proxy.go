package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/gestaorh/plataforma/internal/api"
)

// Forwarder encaminha requisições ao serviço resolvido pela tabela de rotas.
// Uma única tentativa por requisição; falhas de rede viram 503 com corpo
// padronizado, sem repassar bytes parciais do backend.
type Forwarder struct {
	table      *Table
	production bool
	proxy      *httputil.ReverseProxy
}

type decisionKey struct{}

type decision struct {
	target *Target
	path   string
}

// NewForwarder cria o encaminhador com timeouts de conexão e de resposta.
func NewForwarder(table *Table, timeout time.Duration, production bool) *Forwarder {
	f := &Forwarder{table: table, production: production}

	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		ResponseHeaderTimeout: timeout,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
	}

	f.proxy = &httputil.ReverseProxy{
		Director:     f.direct,
		Transport:    transport,
		ErrorHandler: f.handleError,
	}

	return f
}

// ServeHTTP resolve a rota, encaminha e registra o resultado.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target, rewritten, ok := f.table.Match(r.URL.Path)
	if !ok {
		api.WriteError(w, http.StatusNotFound, "rota não encontrada", nil)
		return
	}

	ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
	start := time.Now()

	ctx := context.WithValue(r.Context(), decisionKey{}, &decision{target: target, path: rewritten})
	f.proxy.ServeHTTP(ww, r.WithContext(ctx))

	log.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("target", target.Name).
		Int("status", ww.Status()).
		Dur("duration", time.Since(start)).
		Msg("proxied_request")
}

func (f *Forwarder) direct(req *http.Request) {
	d, ok := req.Context().Value(decisionKey{}).(*decision)
	if !ok {
		return
	}
	req.URL.Scheme = d.target.BaseURL.Scheme
	req.URL.Host = d.target.BaseURL.Host
	req.URL.Path = d.path
	req.Host = d.target.BaseURL.Host
}

func (f *Forwarder) handleError(w http.ResponseWriter, r *http.Request, err error) {
	name := "desconhecido"
	if d, ok := r.Context().Value(decisionKey{}).(*decision); ok {
		name = d.target.Name
	}

	log.Error().Err(err).Str("target", name).Str("path", r.URL.Path).Msg("falha ao encaminhar requisição")

	body := map[string]any{
		"status":  "error",
		"message": fmt.Sprintf("Service %s is currently unavailable", name),
	}
	if !f.production {
		body["error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(body)
}
