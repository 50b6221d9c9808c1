package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusPaid      = "paid"
)

// BenefitLine registra um benefício aplicado na folha, congelado no momento
// do processamento.
type BenefitLine struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	HasDiscount   bool    `json:"hasDiscount"`
	DiscountValue float64 `json:"discountValue"`
}

// Calculation é o resultado do cálculo de folha de um funcionário. Os campos
// INSS, IRRF e FGTS ficam nulos para contrato PJ: ausentes, não zerados.
type Calculation struct {
	EmployeeID    uuid.UUID     `json:"employeeId"`
	EmployeeName  string        `json:"employeeName"`
	Contract      string        `json:"contract"`
	BaseSalary    float64       `json:"baseSalary"`
	OvertimeHours float64       `json:"overtimeHours"`
	OvertimePay   float64       `json:"overtimePay"`
	GrossSalary   float64       `json:"grossSalary"`
	Benefits      []BenefitLine `json:"benefits"`
	INSS          *float64      `json:"inss,omitempty"`
	IRRF          *float64      `json:"irrf,omitempty"`
	FGTS          *float64      `json:"fgts,omitempty"`
	Deductions    float64       `json:"deductions"`
	TotalSalary   float64       `json:"totalSalary"`
}

// Payroll é uma folha persistida, única por funcionário/mês/ano.
type Payroll struct {
	ID uuid.UUID `json:"id"`
	Calculation
	Month       int        `json:"month"`
	Year        int        `json:"year"`
	Status      string     `json:"status"`
	ProcessedAt time.Time  `json:"processedAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ProcessInput struct {
	EmployeeID    string  `json:"employeeId"`
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	OvertimeHours float64 `json:"overtimeHours"`
}

func (in *ProcessInput) Validate() []string {
	var errs []string
	if _, err := uuid.Parse(in.EmployeeID); err != nil {
		errs = append(errs, "employeeId inválido")
	}
	errs = append(errs, validatePeriod(in.Month, in.Year)...)
	if in.OvertimeHours < 0 {
		errs = append(errs, "Horas extras não podem ser negativas")
	}
	return errs
}

type MonthlyInput struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (in *MonthlyInput) Validate() []string {
	return validatePeriod(in.Month, in.Year)
}

// MonthlySummary resume um processamento mensal: quantas folhas foram
// geradas e as falhas individuais que não abortaram o lote.
type MonthlySummary struct {
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}

func validatePeriod(month, year int) []string {
	var errs []string
	if month < 1 || month > 12 {
		errs = append(errs, "Mês deve estar entre 1 e 12")
	}
	if year < 2000 || year > 2100 {
		errs = append(errs, fmt.Sprintf("Ano inválido: %d", year))
	}
	return errs
}
