package gateway

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gestaorh/plataforma/internal/config"
)

// Target descreve um serviço de destino resolvido a partir da tabela de rotas.
type Target struct {
	Name    string
	BaseURL *url.URL
}

// Rule associa um prefixo de rota a um serviço e à reescrita de caminho.
type Rule struct {
	Prefix  string
	Service string
	Rewrite func(string) string
}

// Table é a tabela de rotas do gateway, imutável após a carga.
// As regras são avaliadas na ordem de declaração; a primeira que casar vence.
type Table struct {
	rules   []Rule
	targets map[string]*Target
}

// NewTable monta a tabela a partir das URLs configuradas dos serviços.
func NewTable(cfg *config.Gateway) (*Table, error) {
	targets := map[string]string{
		"workers":   cfg.WorkersURL,
		"benefits":  cfg.BenefitsURL,
		"payroll":   cfg.PayrollURL,
		"documents": cfg.DocumentsURL,
	}

	t := &Table{targets: make(map[string]*Target, len(targets))}
	for name, raw := range targets {
		base, err := url.Parse(raw)
		if err != nil || base.Scheme == "" || base.Host == "" {
			return nil, fmt.Errorf("URL inválida para o serviço %s: %q", name, raw)
		}
		t.targets[name] = &Target{Name: name, BaseURL: base}
	}

	t.rules = []Rule{
		{Prefix: "/api/workers", Service: "workers", Rewrite: keepPath},
		{Prefix: "/api/benefits", Service: "benefits", Rewrite: rewritePrefix("/api/benefits", "/api/benefit-types")},
		{Prefix: "/api/employee-benefits", Service: "benefits", Rewrite: keepPath},
		{Prefix: "/api/payroll", Service: "payroll", Rewrite: keepPath},
		{Prefix: "/api/documents", Service: "documents", Rewrite: keepPath},
		{Prefix: "/api/templates", Service: "documents", Rewrite: keepPath},
	}

	return t, nil
}

// Match devolve o destino e o caminho reescrito para a primeira regra que casar.
func (t *Table) Match(path string) (*Target, string, bool) {
	for _, rule := range t.rules {
		if path == rule.Prefix || strings.HasPrefix(path, rule.Prefix+"/") {
			return t.targets[rule.Service], rule.Rewrite(path), true
		}
	}
	return nil, "", false
}

func keepPath(path string) string {
	return path
}

func rewritePrefix(from, to string) func(string) string {
	return func(path string) string {
		return to + strings.TrimPrefix(path, from)
	}
}
