package benefit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gestaorh/plataforma/internal/apperr"
	"github.com/gestaorh/plataforma/internal/lookup"
)

type stubTypeStore struct {
	types map[uuid.UUID]*BenefitType
}

func newStubTypeStore() *stubTypeStore {
	return &stubTypeStore{types: map[uuid.UUID]*BenefitType{}}
}

func (s *stubTypeStore) List(ctx context.Context) ([]BenefitType, error) {
	var out []BenefitType
	for _, t := range s.types {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubTypeStore) GetByID(ctx context.Context, id uuid.UUID) (*BenefitType, error) {
	t, ok := s.types[id]
	if !ok {
		return nil, ErrTypeNotFound
	}
	return t, nil
}

func (s *stubTypeStore) Create(ctx context.Context, t *BenefitType) (*BenefitType, error) {
	t.ID = uuid.New()
	s.types[t.ID] = t
	return t, nil
}

func (s *stubTypeStore) Update(ctx context.Context, id uuid.UUID, t *BenefitType) (*BenefitType, error) {
	if _, ok := s.types[id]; !ok {
		return nil, ErrTypeNotFound
	}
	t.ID = id
	s.types[id] = t
	return t, nil
}

func (s *stubTypeStore) SetStatus(ctx context.Context, id uuid.UUID, status string) (*BenefitType, error) {
	t, ok := s.types[id]
	if !ok {
		return nil, ErrTypeNotFound
	}
	t.Status = status
	return t, nil
}

func (s *stubTypeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.types[id]; !ok {
		return ErrTypeNotFound
	}
	delete(s.types, id)
	return nil
}

type stubEmployeeStore struct {
	benefits map[uuid.UUID]*EmployeeBenefit
}

func newStubEmployeeStore() *stubEmployeeStore {
	return &stubEmployeeStore{benefits: map[uuid.UUID]*EmployeeBenefit{}}
}

func (s *stubEmployeeStore) List(ctx context.Context) ([]EmployeeBenefit, error) {
	var out []EmployeeBenefit
	for _, eb := range s.benefits {
		out = append(out, *eb)
	}
	return out, nil
}

func (s *stubEmployeeStore) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]EmployeeBenefit, error) {
	var out []EmployeeBenefit
	for _, eb := range s.benefits {
		if eb.EmployeeID == employeeID {
			out = append(out, *eb)
		}
	}
	return out, nil
}

func (s *stubEmployeeStore) GetByID(ctx context.Context, id uuid.UUID) (*EmployeeBenefit, error) {
	eb, ok := s.benefits[id]
	if !ok {
		return nil, ErrBenefitNotFound
	}
	return eb, nil
}

func (s *stubEmployeeStore) HasActive(ctx context.Context, employeeID, benefitTypeID uuid.UUID) (bool, error) {
	for _, eb := range s.benefits {
		if eb.EmployeeID == employeeID && eb.BenefitTypeID == benefitTypeID && eb.Status == "active" {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubEmployeeStore) Create(ctx context.Context, eb *EmployeeBenefit) (*EmployeeBenefit, error) {
	eb.ID = uuid.New()
	s.benefits[eb.ID] = eb
	return eb, nil
}

func (s *stubEmployeeStore) Update(ctx context.Context, id uuid.UUID, eb *EmployeeBenefit) (*EmployeeBenefit, error) {
	existing, ok := s.benefits[id]
	if !ok {
		return nil, ErrBenefitNotFound
	}
	existing.Value = eb.Value
	existing.StartDate = eb.StartDate
	return existing, nil
}

func (s *stubEmployeeStore) Deactivate(ctx context.Context, id uuid.UUID) (*EmployeeBenefit, error) {
	eb, ok := s.benefits[id]
	if !ok {
		return nil, ErrBenefitNotFound
	}
	now := time.Now()
	eb.Status = "inactive"
	eb.EndDate = &now
	return eb, nil
}

func (s *stubEmployeeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.benefits[id]; !ok {
		return ErrBenefitNotFound
	}
	delete(s.benefits, id)
	return nil
}

type stubChecker struct {
	outcome lookup.Outcome
	err     error
	calls   int
}

func (c *stubChecker) CheckEmployee(ctx context.Context, employeeID string) (lookup.Outcome, error) {
	c.calls++
	return c.outcome, c.err
}

func seedType(store *stubTypeStore) *BenefitType {
	t := &BenefitType{
		Name:               "Plano de Saúde",
		HasDiscount:        true,
		DiscountPercentage: 6,
		DefaultValue:       250,
		Status:             "active",
	}
	created, _ := store.Create(context.Background(), t)
	return created
}

func TestCreateBenefitEmployeeConfirmedMissing(t *testing.T) {
	types := newStubTypeStore()
	benefitType := seedType(types)
	checker := &stubChecker{outcome: lookup.OutcomeNotFound}
	svc := NewEmployeeService(newStubEmployeeStore(), types, checker)

	_, err := svc.Create(context.Background(), &EmployeeInput{
		EmployeeID:    uuid.NewString(),
		BenefitTypeID: benefitType.ID.String(),
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("esperado 404 quando o serviço dono confirma ausência, obtido %v", err)
	}
	if appErr.Message != "Employee not found" {
		t.Errorf("mensagem = %q", appErr.Message)
	}
}

func TestCreateBenefitEmployeeServiceDownProceeds(t *testing.T) {
	types := newStubTypeStore()
	benefitType := seedType(types)
	checker := &stubChecker{outcome: lookup.OutcomeUnknown, err: errors.New("timeout")}
	store := newStubEmployeeStore()
	svc := NewEmployeeService(store, types, checker)

	created, err := svc.Create(context.Background(), &EmployeeInput{
		EmployeeID:    uuid.NewString(),
		BenefitTypeID: benefitType.ID.String(),
	})
	if err != nil {
		t.Fatalf("indisponibilidade do serviço dono não deveria bloquear: %v", err)
	}
	if created.Status != "active" {
		t.Errorf("status = %q, esperado active", created.Status)
	}
	// Sem valor informado, herda o valor padrão do tipo.
	if created.Value != 250 {
		t.Errorf("valor = %v, esperado valor padrão 250", created.Value)
	}
}

func TestCreateBenefitDuplicateActive(t *testing.T) {
	types := newStubTypeStore()
	benefitType := seedType(types)
	checker := &stubChecker{outcome: lookup.OutcomeFound}
	store := newStubEmployeeStore()
	svc := NewEmployeeService(store, types, checker)

	employeeID := uuid.NewString()
	input := &EmployeeInput{EmployeeID: employeeID, BenefitTypeID: benefitType.ID.String()}

	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("primeiro vínculo: %v", err)
	}

	_, err := svc.Create(context.Background(), input)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != 409 {
		t.Fatalf("esperado 409 para vínculo ativo duplicado, obtido %v", err)
	}
	if appErr.Message != "Employee already has this benefit active" {
		t.Errorf("mensagem = %q", appErr.Message)
	}
}

func TestCreateBenefitAfterDeactivationAllowed(t *testing.T) {
	types := newStubTypeStore()
	benefitType := seedType(types)
	checker := &stubChecker{outcome: lookup.OutcomeFound}
	store := newStubEmployeeStore()
	svc := NewEmployeeService(store, types, checker)

	employeeID := uuid.NewString()
	input := &EmployeeInput{EmployeeID: employeeID, BenefitTypeID: benefitType.ID.String()}

	first, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("primeiro vínculo: %v", err)
	}
	if _, err := svc.Deactivate(context.Background(), first.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("vínculo novo após desativação deveria ser aceito: %v", err)
	}
}

func TestUpdateBenefitKeepsStartDateWhenOmitted(t *testing.T) {
	types := newStubTypeStore()
	benefitType := seedType(types)
	checker := &stubChecker{outcome: lookup.OutcomeFound}
	store := newStubEmployeeStore()
	svc := NewEmployeeService(store, types, checker)

	employeeID := uuid.NewString()
	created, err := svc.Create(context.Background(), &EmployeeInput{
		EmployeeID:    employeeID,
		BenefitTypeID: benefitType.ID.String(),
		StartDate:     "2024-01-15",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newValue := 320.0
	updated, err := svc.Update(context.Background(), created.ID, &EmployeeInput{
		EmployeeID:    employeeID,
		BenefitTypeID: benefitType.ID.String(),
		Value:         &newValue,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Value != 320 {
		t.Errorf("valor = %v, esperado 320", updated.Value)
	}
	if !updated.StartDate.Equal(created.StartDate) {
		t.Errorf("data de início foi reescrita para %v, esperado manter %v",
			updated.StartDate, created.StartDate)
	}
}

func TestCreateBenefitUnknownType(t *testing.T) {
	checker := &stubChecker{outcome: lookup.OutcomeFound}
	svc := NewEmployeeService(newStubEmployeeStore(), newStubTypeStore(), checker)

	_, err := svc.Create(context.Background(), &EmployeeInput{
		EmployeeID:    uuid.NewString(),
		BenefitTypeID: uuid.NewString(),
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("esperado 404 para tipo inexistente, obtido %v", err)
	}
	if appErr.Message != "Benefit type not found" {
		t.Errorf("mensagem = %q", appErr.Message)
	}
	if checker.calls != 0 {
		t.Error("tipo inexistente deveria falhar antes da checagem de funcionário")
	}
}

func TestListByEmployeeChecksExistence(t *testing.T) {
	checker := &stubChecker{outcome: lookup.OutcomeNotFound}
	svc := NewEmployeeService(newStubEmployeeStore(), newStubTypeStore(), checker)

	_, err := svc.ListByEmployee(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("esperado 404, obtido %v", err)
	}
}

func TestTypeServiceDiscountZeroedWithoutFlag(t *testing.T) {
	svc := NewTypeService(newStubTypeStore())

	created, err := svc.Create(context.Background(), &TypeInput{
		Name:               "Vale Transporte",
		HasDiscount:        false,
		DiscountPercentage: 10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.DiscountPercentage != 0 {
		t.Errorf("sem hasDiscount o percentual deveria ser zerado, obtido %v",
			created.DiscountPercentage)
	}
	if created.Status != "active" {
		t.Errorf("status padrão = %q, esperado active", created.Status)
	}
}

func TestTypeServiceValidation(t *testing.T) {
	svc := NewTypeService(newStubTypeStore())

	_, err := svc.Create(context.Background(), &TypeInput{
		Name:               "",
		HasDiscount:        true,
		DiscountPercentage: 150,
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Status != 400 {
		t.Fatalf("esperado 400, obtido %v", err)
	}
	if len(appErr.Details) != 2 {
		t.Errorf("detalhes = %v, esperadas 2 mensagens", appErr.Details)
	}
}
