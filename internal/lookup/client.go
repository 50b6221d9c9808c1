// Package lookup concentra as consultas síncronas entre serviços: a checagem
// de existência de referência estrangeira e os clientes tipados usados pelo
// motor de folha de pagamento.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Outcome classifica o resultado de uma checagem de existência.
//
// Só OutcomeNotFound (ausência confirmada pelo serviço dono) deve bloquear a
// escrita dependente. Qualquer outra falha (timeout, conexão recusada, 5xx,
// resposta malformada) vira OutcomeUnknown e o chamador segue em frente com
// um warning, priorizando disponibilidade sobre integridade referencial.
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeNotFound
	OutcomeUnknown
)

// Employee é a projeção do funcionário consumida de fora, nunca possuída aqui.
type Employee struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Contract string    `json:"contract"`
	Salario  string    `json:"salario"`
}

// Benefit é a projeção de benefício ativa consumida do serviço de benefícios.
type Benefit struct {
	Value       float64        `json:"value"`
	Status      string         `json:"status"`
	BenefitType BenefitTypeRef `json:"benefitType"`
}

// BenefitTypeRef descreve o tipo do benefício com sua regra de desconto.
type BenefitTypeRef struct {
	Name               string  `json:"name"`
	HasDiscount        bool    `json:"hasDiscount"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

// Client executa as consultas HTTP com timeout limitado.
type Client struct {
	http         *http.Client
	workersBase  string
	benefitsBase string
}

// NewClient cria o cliente com os endereços base dos serviços.
func NewClient(workersBase, benefitsBase string, timeout time.Duration) *Client {
	return &Client{
		http:         &http.Client{Timeout: timeout},
		workersBase:  workersBase,
		benefitsBase: benefitsBase,
	}
}

// CheckEmployee verifica se o funcionário existe no serviço dono.
func (c *Client) CheckEmployee(ctx context.Context, employeeID string) (Outcome, error) {
	resp, err := c.get(ctx, c.workersBase+"/api/workers/"+employeeID)
	if err != nil {
		return OutcomeUnknown, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return OutcomeNotFound, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return OutcomeFound, nil
	default:
		return OutcomeUnknown, fmt.Errorf("serviço de funcionários respondeu %d", resp.StatusCode)
	}
}

// ErrEmployeeNotFound sinaliza ausência confirmada pelo serviço de funcionários.
var ErrEmployeeNotFound = fmt.Errorf("funcionário não encontrado")

// GetEmployee busca o funcionário pelo id.
func (c *Client) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	resp, err := c.get(ctx, c.workersBase+"/api/workers/"+employeeID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrEmployeeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serviço de funcionários respondeu %d", resp.StatusCode)
	}

	var employee Employee
	if err := json.NewDecoder(resp.Body).Decode(&employee); err != nil {
		return nil, fmt.Errorf("resposta inválida do serviço de funcionários: %w", err)
	}
	return &employee, nil
}

// ListEmployees busca todos os funcionários.
func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	resp, err := c.get(ctx, c.workersBase+"/api/workers")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serviço de funcionários respondeu %d", resp.StatusCode)
	}

	var employees []Employee
	if err := json.NewDecoder(resp.Body).Decode(&employees); err != nil {
		return nil, fmt.Errorf("resposta inválida do serviço de funcionários: %w", err)
	}
	return employees, nil
}

// ListEmployeeBenefits busca os benefícios vinculados ao funcionário.
func (c *Client) ListEmployeeBenefits(ctx context.Context, employeeID string) ([]Benefit, error) {
	resp, err := c.get(ctx, c.benefitsBase+"/api/employee-benefits/employee/"+employeeID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serviço de benefícios respondeu %d", resp.StatusCode)
	}

	var benefits []Benefit
	if err := json.NewDecoder(resp.Body).Decode(&benefits); err != nil {
		return nil, fmt.Errorf("resposta inválida do serviço de benefícios: %w", err)
	}
	return benefits, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}
