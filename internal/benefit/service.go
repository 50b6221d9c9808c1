package benefit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gestaorh/plataforma/internal/apperr"
	"github.com/gestaorh/plataforma/internal/lookup"
)

// TypeStore define o que o serviço de tipos precisa do repositório.
type TypeStore interface {
	List(ctx context.Context) ([]BenefitType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BenefitType, error)
	Create(ctx context.Context, t *BenefitType) (*BenefitType, error)
	Update(ctx context.Context, id uuid.UUID, t *BenefitType) (*BenefitType, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*BenefitType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TypeService aplica validação sobre tipos de benefício.
type TypeService struct {
	store TypeStore
}

// NewTypeService cria o serviço com o repositório injetado.
func NewTypeService(store TypeStore) *TypeService {
	return &TypeService{store: store}
}

// List devolve todos os tipos de benefício.
func (s *TypeService) List(ctx context.Context) ([]BenefitType, error) {
	types, err := s.store.List(ctx)
	if err != nil {
		return nil, mapTypeError(err)
	}
	return types, nil
}

// Get busca um tipo pelo id.
func (s *TypeService) Get(ctx context.Context, id uuid.UUID) (*BenefitType, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapTypeError(err)
	}
	return t, nil
}

// Create valida e persiste um novo tipo.
func (s *TypeService) Create(ctx context.Context, input *TypeInput) (*BenefitType, error) {
	t, err := typeFromInput(input)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, t)
	if err != nil {
		return nil, mapTypeError(err)
	}
	return created, nil
}

// Update valida e substitui um tipo existente.
func (s *TypeService) Update(ctx context.Context, id uuid.UUID, input *TypeInput) (*BenefitType, error) {
	t, err := typeFromInput(input)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, t)
	if err != nil {
		return nil, mapTypeError(err)
	}
	return updated, nil
}

// Deactivate marca o tipo como inativo.
func (s *TypeService) Deactivate(ctx context.Context, id uuid.UUID) (*BenefitType, error) {
	t, err := s.store.SetStatus(ctx, id, "inactive")
	if err != nil {
		return nil, mapTypeError(err)
	}
	return t, nil
}

// Delete remove o tipo.
func (s *TypeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return mapTypeError(err)
	}
	return nil
}

func typeFromInput(input *TypeInput) (*BenefitType, error) {
	if details := input.Validate(); len(details) > 0 {
		return nil, apperr.Validation("Validation error", details...)
	}

	status := input.Status
	if status == "" {
		status = "active"
	}

	discount := input.DiscountPercentage
	if !input.HasDiscount {
		discount = 0
	}

	return &BenefitType{
		Name:               input.Name,
		Description:        input.Description,
		HasDiscount:        input.HasDiscount,
		DiscountPercentage: discount,
		DefaultValue:       input.DefaultValue,
		Status:             status,
	}, nil
}

func mapTypeError(err error) error {
	if errors.Is(err, ErrTypeNotFound) {
		return apperr.NotFound("Benefit type not found")
	}
	log.Error().Err(err).Msg("erro no serviço de tipos de benefício")
	return apperr.Internal("erro interno").WithCause(err)
}

// EmployeeStore define o que o serviço de vínculos precisa do repositório.
type EmployeeStore interface {
	List(ctx context.Context) ([]EmployeeBenefit, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]EmployeeBenefit, error)
	GetByID(ctx context.Context, id uuid.UUID) (*EmployeeBenefit, error)
	HasActive(ctx context.Context, employeeID, benefitTypeID uuid.UUID) (bool, error)
	Create(ctx context.Context, eb *EmployeeBenefit) (*EmployeeBenefit, error)
	Update(ctx context.Context, id uuid.UUID, eb *EmployeeBenefit) (*EmployeeBenefit, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*EmployeeBenefit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeChecker verifica a existência do funcionário no serviço dono.
type EmployeeChecker interface {
	CheckEmployee(ctx context.Context, employeeID string) (lookup.Outcome, error)
}

// EmployeeService aplica as regras de vínculo funcionário-benefício,
// incluindo a checagem de referência cruzada contra o serviço de funcionários.
type EmployeeService struct {
	store   EmployeeStore
	types   TypeStore
	checker EmployeeChecker
}

// NewEmployeeService cria o serviço com dependências injetadas.
func NewEmployeeService(store EmployeeStore, types TypeStore, checker EmployeeChecker) *EmployeeService {
	return &EmployeeService{store: store, types: types, checker: checker}
}

// List devolve todos os vínculos.
func (s *EmployeeService) List(ctx context.Context) ([]EmployeeBenefit, error) {
	benefits, err := s.store.List(ctx)
	if err != nil {
		return nil, mapBenefitError(err)
	}
	return benefits, nil
}

// Get busca um vínculo pelo id.
func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*EmployeeBenefit, error) {
	eb, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapBenefitError(err)
	}
	return eb, nil
}

// ListByEmployee devolve os vínculos de um funcionário, confirmando antes a
// existência dele no serviço dono.
func (s *EmployeeService) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]EmployeeBenefit, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	benefits, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapBenefitError(err)
	}
	return benefits, nil
}

// Create valida e persiste um novo vínculo.
func (s *EmployeeService) Create(ctx context.Context, input *EmployeeInput) (*EmployeeBenefit, error) {
	if details := input.Validate(); len(details) > 0 {
		return nil, apperr.Validation("Validation error", details...)
	}

	employeeID, _ := uuid.Parse(input.EmployeeID)
	benefitTypeID, _ := uuid.Parse(input.BenefitTypeID)

	benefitType, err := s.types.GetByID(ctx, benefitTypeID)
	if err != nil {
		if errors.Is(err, ErrTypeNotFound) {
			return nil, apperr.NotFound("Benefit type not found")
		}
		return nil, mapBenefitError(err)
	}

	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	hasActive, err := s.store.HasActive(ctx, employeeID, benefitTypeID)
	if err != nil {
		return nil, mapBenefitError(err)
	}
	if hasActive {
		return nil, apperr.Conflict("Employee already has this benefit active")
	}

	value := benefitType.DefaultValue
	if input.Value != nil {
		value = *input.Value
	}

	startDate := time.Now()
	if input.StartDate != "" {
		startDate, _ = parseDate(input.StartDate)
	}

	created, err := s.store.Create(ctx, &EmployeeBenefit{
		EmployeeID:    employeeID,
		BenefitTypeID: benefitTypeID,
		Value:         value,
		StartDate:     startDate,
		Status:        "active",
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateBenefit) {
			return nil, apperr.Conflict("Employee already has this benefit active")
		}
		return nil, mapBenefitError(err)
	}
	return created, nil
}

// Update valida e atualiza valor e data de início do vínculo. Campos ausentes
// na entrada preservam o que já está gravado.
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, input *EmployeeInput) (*EmployeeBenefit, error) {
	if details := input.Validate(); len(details) > 0 {
		return nil, apperr.Validation("Validation error", details...)
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapBenefitError(err)
	}

	eb := &EmployeeBenefit{Value: existing.Value, StartDate: existing.StartDate}
	if input.Value != nil {
		eb.Value = *input.Value
	}
	if input.StartDate != "" {
		eb.StartDate, _ = parseDate(input.StartDate)
	}

	updated, err := s.store.Update(ctx, id, eb)
	if err != nil {
		return nil, mapBenefitError(err)
	}
	return updated, nil
}

// Deactivate encerra o vínculo.
func (s *EmployeeService) Deactivate(ctx context.Context, id uuid.UUID) (*EmployeeBenefit, error) {
	eb, err := s.store.Deactivate(ctx, id)
	if err != nil {
		return nil, mapBenefitError(err)
	}
	return eb, nil
}

// Delete remove o vínculo.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return mapBenefitError(err)
	}
	return nil
}

// ensureEmployee aplica a política assimétrica da checagem cruzada: ausência
// confirmada bloqueia a operação; qualquer outra falha gera warning e segue,
// priorizando disponibilidade quando o serviço de funcionários está fora.
func (s *EmployeeService) ensureEmployee(ctx context.Context, employeeID uuid.UUID) error {
	outcome, err := s.checker.CheckEmployee(ctx, employeeID.String())
	switch outcome {
	case lookup.OutcomeNotFound:
		return apperr.NotFound("Employee not found")
	case lookup.OutcomeUnknown:
		log.Warn().Err(err).Stringer("employee_id", employeeID).
			Msg("não foi possível validar funcionário; prosseguindo")
	}
	return nil
}

func mapBenefitError(err error) error {
	if errors.Is(err, ErrBenefitNotFound) {
		return apperr.NotFound("Employee benefit not found")
	}
	log.Error().Err(err).Msg("erro no serviço de benefícios")
	return apperr.Internal("erro interno").WithCause(err)
}
