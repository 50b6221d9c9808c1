package gateway

import (
	"testing"

	"github.com/gestaorh/plataforma/internal/config"
)

func testGatewayConfig(workers, benefits, payroll, documents string) *config.Gateway {
	return &config.Gateway{
		WorkersURL:   workers,
		BenefitsURL:  benefits,
		PayrollURL:   payroll,
		DocumentsURL: documents,
	}
}

func TestTableMatch(t *testing.T) {
	table, err := NewTable(testGatewayConfig(
		"http://workers:3001", "http://benefits:3002",
		"http://payroll:3003", "http://documents:3004"))
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	cases := []struct {
		path        string
		wantService string
		wantPath    string
	}{
		{"/api/workers", "workers", "/api/workers"},
		{"/api/workers/123/entry", "workers", "/api/workers/123/entry"},
		{"/api/benefits", "benefits", "/api/benefit-types"},
		{"/api/benefits/abc", "benefits", "/api/benefit-types/abc"},
		{"/api/employee-benefits/employee/1", "benefits", "/api/employee-benefits/employee/1"},
		{"/api/payroll/process", "payroll", "/api/payroll/process"},
		{"/api/documents/55", "documents", "/api/documents/55"},
		{"/api/templates", "documents", "/api/templates"},
	}

	for _, tc := range cases {
		target, rewritten, ok := table.Match(tc.path)
		if !ok {
			t.Errorf("Match(%q): rota não encontrada", tc.path)
			continue
		}
		if target.Name != tc.wantService {
			t.Errorf("Match(%q) serviço = %q, esperado %q", tc.path, target.Name, tc.wantService)
		}
		if rewritten != tc.wantPath {
			t.Errorf("Match(%q) caminho = %q, esperado %q", tc.path, rewritten, tc.wantPath)
		}
	}
}

func TestTableMatchIsSegmentAware(t *testing.T) {
	table, err := NewTable(testGatewayConfig(
		"http://workers:3001", "http://benefits:3002",
		"http://payroll:3003", "http://documents:3004"))
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	for _, path := range []string{"/api/workersfoo", "/api/benefitsx", "/api/unknown", "/health"} {
		if _, _, ok := table.Match(path); ok {
			t.Errorf("Match(%q) não deveria casar com nenhuma regra", path)
		}
	}
}

func TestNewTableRejectsInvalidURL(t *testing.T) {
	_, err := NewTable(testGatewayConfig("not-a-url", "http://b:1", "http://p:1", "http://d:1"))
	if err == nil {
		t.Fatal("NewTable deveria rejeitar URL sem esquema")
	}
}
