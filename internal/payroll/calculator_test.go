package payroll

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/gestaorh/plataforma/internal/lookup"
)

func eq(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestParseSalary(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"3000,00", 3000},
		{"R$ 1.234,56", 1234.56},
		{"1234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"5000", 5000},
	}
	for _, tc := range cases {
		got, err := ParseSalary(tc.raw)
		if err != nil {
			t.Fatalf("ParseSalary(%q): %v", tc.raw, err)
		}
		if !eq(got, tc.want) {
			t.Errorf("ParseSalary(%q) = %v, esperado %v", tc.raw, got, tc.want)
		}
	}

	if _, err := ParseSalary("abc"); err == nil {
		t.Error("ParseSalary deveria falhar para entrada sem dígitos")
	}
}

func TestCalculateINSS(t *testing.T) {
	cases := []struct {
		salary float64
		want   float64
	}{
		{1412.00, 105.90},
		{2666.68, 218.82},
		{4000.03, 378.82},
		{3204.55, 283.37},
		{10000.00, 908.86},
	}
	for _, tc := range cases {
		if got := CalculateINSS(tc.salary); !eq(got, tc.want) {
			t.Errorf("CalculateINSS(%v) = %v, esperado %v", tc.salary, got, tc.want)
		}
	}
}

func TestCalculateIRRF(t *testing.T) {
	// Base até 2259.20 é isenta.
	if got := CalculateIRRF(2259.20, 0); got != 0 {
		t.Errorf("IRRF de base isenta = %v, esperado 0", got)
	}
	// Base 2921.18 cai na faixa de 15%.
	if got := CalculateIRRF(3204.55, 283.37); !eq(got, 56.74) {
		t.Errorf("CalculateIRRF(3204.55, 283.37) = %v, esperado 56.74", got)
	}
	// Faixa máxima de 27.5%.
	if got := CalculateIRRF(10000, 908.86); !eq(got, 1604.06) {
		t.Errorf("CalculateIRRF(10000, 908.86) = %v, esperado 1604.06", got)
	}
}

func TestCalculateOvertime(t *testing.T) {
	if got := CalculateOvertime(3000, 10, true); !eq(got, 204.55) {
		t.Errorf("hora extra CLT = %v, esperado 204.55", got)
	}
	if got := CalculateOvertime(3000, 10, false); !eq(got, 136.36) {
		t.Errorf("hora extra PJ = %v, esperado 136.36", got)
	}
	if got := CalculateOvertime(3000, 0, true); got != 0 {
		t.Errorf("sem horas extras = %v, esperado 0", got)
	}
}

func TestCalculateCLT(t *testing.T) {
	employee := &lookup.Employee{
		ID:       uuid.New(),
		Name:     "Maria Silva",
		Status:   "active",
		Contract: "CLT",
		Salario:  "3000,00",
	}
	benefits := []lookup.Benefit{
		{
			Value:  200,
			Status: "active",
			BenefitType: lookup.BenefitTypeRef{
				Name:               "Plano de Saúde",
				HasDiscount:        true,
				DiscountPercentage: 6,
			},
		},
		{
			Value:  500,
			Status: "inactive",
			BenefitType: lookup.BenefitTypeRef{
				Name: "Vale Alimentação",
			},
		},
	}

	calc, err := Calculate(employee, benefits, 10)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if !eq(calc.OvertimePay, 204.55) {
		t.Errorf("OvertimePay = %v, esperado 204.55", calc.OvertimePay)
	}
	if !eq(calc.GrossSalary, 3204.55) {
		t.Errorf("GrossSalary = %v, esperado 3204.55", calc.GrossSalary)
	}
	if calc.INSS == nil || !eq(*calc.INSS, 283.37) {
		t.Errorf("INSS = %v, esperado 283.37", calc.INSS)
	}
	if calc.IRRF == nil || !eq(*calc.IRRF, 56.74) {
		t.Errorf("IRRF = %v, esperado 56.74", calc.IRRF)
	}
	if calc.FGTS == nil || !eq(*calc.FGTS, 256.36) {
		t.Errorf("FGTS = %v, esperado 256.36", calc.FGTS)
	}

	// Benefício inativo fica de fora; o ativo desconta 6% de 200.
	if len(calc.Benefits) != 1 {
		t.Fatalf("Benefits = %d linhas, esperado 1", len(calc.Benefits))
	}
	if !eq(calc.Benefits[0].DiscountValue, 12.00) {
		t.Errorf("DiscountValue = %v, esperado 12.00", calc.Benefits[0].DiscountValue)
	}

	if !eq(calc.Deductions, 352.11) {
		t.Errorf("Deductions = %v, esperado 352.11", calc.Deductions)
	}
	if !eq(calc.TotalSalary, 2852.44) {
		t.Errorf("TotalSalary = %v, esperado 2852.44", calc.TotalSalary)
	}
}

func TestCalculatePJ(t *testing.T) {
	employee := &lookup.Employee{
		ID:       uuid.New(),
		Name:     "João Souza",
		Status:   "active",
		Contract: "PJ",
		Salario:  "8000,00",
	}

	calc, err := Calculate(employee, nil, 5)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// PJ não tem encargos: campos ausentes, não zerados.
	if calc.INSS != nil || calc.IRRF != nil || calc.FGTS != nil {
		t.Errorf("PJ deveria ter INSS/IRRF/FGTS nulos: %v %v %v",
			calc.INSS, calc.IRRF, calc.FGTS)
	}

	// Hora extra PJ sem adicional de 50%.
	if !eq(calc.OvertimePay, 181.82) {
		t.Errorf("OvertimePay = %v, esperado 181.82", calc.OvertimePay)
	}
	if !eq(calc.TotalSalary, calc.GrossSalary) {
		t.Errorf("TotalSalary = %v, esperado igual ao bruto %v",
			calc.TotalSalary, calc.GrossSalary)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	employee := &lookup.Employee{
		ID:       uuid.New(),
		Name:     "Ana",
		Contract: "CLT",
		Salario:  "4567,89",
	}

	first, err := Calculate(employee, nil, 3)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	second, err := Calculate(employee, nil, 3)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if first.TotalSalary != second.TotalSalary || *first.INSS != *second.INSS {
		t.Error("cálculo deveria ser determinístico para entradas idênticas")
	}
}
