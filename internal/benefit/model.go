package benefit

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BenefitType descreve um tipo de benefício oferecido aos funcionários.
type BenefitType struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	HasDiscount        bool      `json:"hasDiscount"`
	DiscountPercentage float64   `json:"discountPercentage"`
	DefaultValue       float64   `json:"defaultValue"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// EmployeeBenefit vincula um benefício a um funcionário de outro serviço.
type EmployeeBenefit struct {
	ID            uuid.UUID   `json:"id"`
	EmployeeID    uuid.UUID   `json:"employeeId"`
	BenefitTypeID uuid.UUID   `json:"benefitTypeId"`
	Value         float64     `json:"value"`
	StartDate     time.Time   `json:"startDate"`
	EndDate       *time.Time  `json:"endDate,omitempty"`
	Status        string      `json:"status"`
	BenefitType   BenefitType `json:"benefitType"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// TypeInput contém os campos aceitos para tipos de benefício.
type TypeInput struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	HasDiscount        bool    `json:"hasDiscount"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DefaultValue       float64 `json:"defaultValue"`
	Status             string  `json:"status"`
}

// Validate aplica as regras de campo antes de qualquer persistência.
func (in *TypeInput) Validate() []string {
	var details []string

	if strings.TrimSpace(in.Name) == "" {
		details = append(details, "Nome é obrigatório")
	}
	if in.HasDiscount && (in.DiscountPercentage <= 0 || in.DiscountPercentage > 100) {
		details = append(details, "Percentual de desconto deve estar entre 0 e 100")
	}
	if in.DefaultValue < 0 {
		details = append(details, "Valor padrão não pode ser negativo")
	}
	if in.Status != "" && in.Status != "active" && in.Status != "inactive" {
		details = append(details, "Status deve ser active ou inactive")
	}

	return details
}

// EmployeeInput contém os campos aceitos para benefícios de funcionário.
type EmployeeInput struct {
	EmployeeID    string   `json:"employeeId"`
	BenefitTypeID string   `json:"benefitTypeId"`
	Value         *float64 `json:"value"`
	StartDate     string   `json:"startDate"`
}

// Validate aplica as regras de campo antes de qualquer persistência.
func (in *EmployeeInput) Validate() []string {
	var details []string

	if _, err := uuid.Parse(in.EmployeeID); err != nil {
		details = append(details, "Funcionário é obrigatório")
	}
	if _, err := uuid.Parse(in.BenefitTypeID); err != nil {
		details = append(details, "Tipo de benefício é obrigatório")
	}
	if in.Value != nil && *in.Value < 0 {
		details = append(details, "Valor não pode ser negativo")
	}
	if in.StartDate != "" {
		if _, err := parseDate(in.StartDate); err != nil {
			details = append(details, "Data de início inválida")
		}
	}

	return details
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
