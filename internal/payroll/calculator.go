package payroll

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gestaorh/plataforma/internal/lookup"
	"github.com/gestaorh/plataforma/internal/worker"
)

// Jornada mensal padrão usada no cálculo de hora extra.
const monthlyHours = 220

// Tabela INSS 2024: alíquotas marginais por faixa de salário bruto.
var inssBrackets = []struct {
	Max  float64
	Rate float64
}{
	{1412.00, 0.075},
	{2666.68, 0.09},
	{4000.03, 0.12},
	{7786.02, 0.14},
}

// Tabela IRRF 2024: teto da base de cálculo, alíquota e parcela a deduzir.
var irrfBrackets = []struct {
	Max       float64
	Rate      float64
	Deduction float64
}{
	{2259.20, 0, 0},
	{2826.65, 0.075, 169.44},
	{3751.05, 0.15, 381.44},
	{4664.68, 0.225, 662.77},
	{math.MaxFloat64, 0.275, 896.00},
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseSalary converte o salário textual em número, tolerando pontuação de
// moeda brasileira (vírgula decimal, pontos de milhar, prefixo R$).
func ParseSalary(raw string) (float64, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("salário inválido: %q", raw)
	}
	return value, nil
}

// CalculateINSS aplica as alíquotas marginais sobre o salário bruto: cada
// faixa incide apenas sobre a fatia do salário dentro dela.
func CalculateINSS(salary float64) float64 {
	var inss float64
	remaining := salary
	previousMax := 0.0

	for _, bracket := range inssBrackets {
		if remaining <= 0 {
			break
		}
		base := math.Min(remaining, bracket.Max-previousMax)
		inss += base * bracket.Rate
		remaining -= base
		previousMax = bracket.Max
	}

	return round2(inss)
}

// CalculateIRRF aplica a tabela progressiva sobre (salário - INSS).
// O resultado bruto da fórmula é mantido, sem piso em zero.
func CalculateIRRF(salary, inss float64) float64 {
	base := salary - inss

	for _, bracket := range irrfBrackets {
		if base <= bracket.Max {
			if bracket.Rate == 0 {
				return 0
			}
			return round2(base*bracket.Rate - bracket.Deduction)
		}
	}
	return 0
}

// CalculateFGTS devolve 8% do salário bruto (informativo, não descontado).
func CalculateFGTS(salary float64) float64 {
	return round2(salary * 0.08)
}

// CalculateOvertime calcula o adicional de horas extras: 50% para CLT,
// sem adicional para PJ.
func CalculateOvertime(baseSalary, overtimeHours float64, isCLT bool) float64 {
	hourlyRate := baseSalary / monthlyHours
	overtimeRate := 1.0
	if isCLT {
		overtimeRate = 1.5
	}
	return round2(hourlyRate * overtimeHours * overtimeRate)
}

// Calculate produz o cálculo completo da folha de um funcionário a partir dos
// dados consultados. É uma função pura: entradas idênticas produzem saídas
// idênticas.
func Calculate(employee *lookup.Employee, benefits []lookup.Benefit, overtimeHours float64) (*Calculation, error) {
	baseSalary, err := ParseSalary(employee.Salario)
	if err != nil {
		return nil, err
	}

	isCLT := employee.Contract == worker.ContractCLT

	overtimePay := CalculateOvertime(baseSalary, overtimeHours, isCLT)
	grossSalary := baseSalary + overtimePay

	lines := make([]BenefitLine, 0, len(benefits))
	var benefitsDeduction float64
	for _, b := range benefits {
		if b.Status != "active" {
			continue
		}

		var discountValue float64
		if b.BenefitType.HasDiscount && b.BenefitType.DiscountPercentage > 0 {
			discountValue = round2(b.Value * b.BenefitType.DiscountPercentage / 100)
		}
		benefitsDeduction += discountValue

		lines = append(lines, BenefitLine{
			Name:          b.BenefitType.Name,
			Value:         b.Value,
			HasDiscount:   b.BenefitType.HasDiscount,
			DiscountValue: discountValue,
		})
	}

	calc := &Calculation{
		EmployeeID:    employee.ID,
		EmployeeName:  employee.Name,
		Contract:      employee.Contract,
		BaseSalary:    baseSalary,
		OvertimeHours: overtimeHours,
		OvertimePay:   overtimePay,
		GrossSalary:   grossSalary,
		Benefits:      lines,
	}

	var inss, irrf float64
	if isCLT {
		inss = CalculateINSS(grossSalary)
		irrf = CalculateIRRF(grossSalary, inss)
		fgts := CalculateFGTS(grossSalary)
		calc.INSS = &inss
		calc.IRRF = &irrf
		calc.FGTS = &fgts
	}

	calc.Deductions = inss + irrf + benefitsDeduction
	calc.TotalSalary = grossSalary - calc.Deductions

	return calc, nil
}
