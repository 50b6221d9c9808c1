package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gestaorh/plataforma/internal/apperr"
	"github.com/gestaorh/plataforma/internal/lookup"
)

// Store é a camada de persistência das folhas.
type Store interface {
	List(ctx context.Context) ([]Payroll, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Payroll, error)
	ListByMonthYear(ctx context.Context, month, year int) ([]Payroll, error)
	FindByEmployeeMonthYear(ctx context.Context, employeeID uuid.UUID, month, year int) (*Payroll, error)
	Create(ctx context.Context, calc *Calculation, month, year int) (*Payroll, error)
	DeleteByMonthYear(ctx context.Context, month, year int) (int64, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*Payroll, error)
}

// Fetcher consulta os serviços de funcionários e benefícios.
type Fetcher interface {
	GetEmployee(ctx context.Context, id string) (*lookup.Employee, error)
	ListEmployees(ctx context.Context) ([]lookup.Employee, error)
	ListEmployeeBenefits(ctx context.Context, employeeID string) ([]lookup.Benefit, error)
}

type Service struct {
	store Store
	fetch Fetcher
}

func NewService(store Store, fetch Fetcher) *Service {
	return &Service{store: store, fetch: fetch}
}

func (s *Service) List(ctx context.Context) ([]Payroll, error) {
	payrolls, err := s.store.List(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return payrolls, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payroll, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return p, nil
}

func (s *Service) ListByMonthYear(ctx context.Context, month, year int) ([]Payroll, error) {
	if errs := validatePeriod(month, year); len(errs) > 0 {
		return nil, apperr.Validation("Período inválido", errs...)
	}
	payrolls, err := s.store.ListByMonthYear(ctx, month, year)
	if err != nil {
		return nil, s.mapError(err)
	}
	return payrolls, nil
}

// CalculatePayroll monta o cálculo de um funcionário sem persistir nada.
// Funcionário inexistente é erro duro; falha ao consultar benefícios apenas
// registra aviso e segue com a lista vazia.
func (s *Service) CalculatePayroll(ctx context.Context, employeeID string, overtimeHours float64) (*Calculation, error) {
	employee, err := s.fetch.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, lookup.ErrEmployeeNotFound) {
			return nil, apperr.NotFound("Funcionário não encontrado")
		}
		log.Error().Err(err).Str("employee_id", employeeID).
			Msg("falha ao buscar funcionário")
		return nil, apperr.Internal("Erro ao buscar informações do funcionário")
	}

	benefits, err := s.fetch.ListEmployeeBenefits(ctx, employeeID)
	if err != nil {
		log.Warn().Err(err).Str("employee_id", employeeID).
			Msg("não foi possível consultar benefícios; prosseguindo sem eles")
		benefits = nil
	}

	calc, err := Calculate(employee, benefits, overtimeHours)
	if err != nil {
		log.Error().Err(err).Str("employee_id", employeeID).
			Msg("cálculo de folha falhou")
		return nil, apperr.Internal("Erro ao calcular folha de pagamento")
	}
	return calc, nil
}

// Process calcula e persiste a folha de um funcionário para o período.
func (s *Service) Process(ctx context.Context, input *ProcessInput) (*Payroll, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, apperr.Validation("Dados inválidos", errs...)
	}
	employeeID := uuid.MustParse(input.EmployeeID)

	existing, err := s.store.FindByEmployeeMonthYear(ctx, employeeID, input.Month, input.Year)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, s.mapError(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("Já existe folha processada para este funcionário neste período")
	}

	calc, err := s.CalculatePayroll(ctx, input.EmployeeID, input.OvertimeHours)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, calc, input.Month, input.Year)
	if err != nil {
		return nil, s.mapError(err)
	}
	return created, nil
}

// ProcessMonthly reprocessa a folha do período inteiro: remove as folhas
// existentes do mês/ano e recalcula uma por funcionário ativo. A falha de um
// funcionário não interrompe o lote, apenas entra na lista de erros.
func (s *Service) ProcessMonthly(ctx context.Context, input *MonthlyInput) (*MonthlySummary, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, apperr.Validation("Período inválido", errs...)
	}

	employees, err := s.fetch.ListEmployees(ctx)
	if err != nil {
		log.Error().Err(err).Msg("falha ao listar funcionários para o processamento mensal")
		return nil, apperr.Internal("Erro ao buscar funcionários")
	}

	removed, err := s.store.DeleteByMonthYear(ctx, input.Month, input.Year)
	if err != nil {
		return nil, s.mapError(err)
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).
			Int("month", input.Month).Int("year", input.Year).
			Msg("folhas anteriores do período removidas para reprocessamento")
	}

	summary := &MonthlySummary{Errors: []string{}}
	for i := range employees {
		emp := &employees[i]
		if emp.Status != "active" {
			continue
		}

		calc, err := s.CalculatePayroll(ctx, emp.ID.String(), 0)
		if err == nil {
			_, err = s.store.Create(ctx, calc, input.Month, input.Year)
		}
		if err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("Erro ao processar folha para %s: %s", emp.Name, err.Error()))
			continue
		}
		summary.Processed++
	}
	return summary, nil
}

func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*Payroll, error) {
	p, err := s.store.MarkPaid(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return p, nil
}

func (s *Service) mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Folha de pagamento não encontrada")
	case errors.Is(err, ErrDuplicate):
		return apperr.Conflict("Já existe folha processada para este funcionário neste período")
	default:
		log.Error().Err(err).Msg("erro de persistência na folha de pagamento")
		return apperr.Internal("erro interno")
	}
}
