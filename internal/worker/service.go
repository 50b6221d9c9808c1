package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gestaorh/plataforma/internal/apperr"
)

// Store define o que o serviço precisa do repositório, permitindo stubs em teste.
type Store interface {
	List(ctx context.Context, status string) ([]Worker, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	Create(ctx context.Context, w *Worker) (*Worker, error)
	Update(ctx context.Context, id uuid.UUID, w *Worker) (*Worker, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddLog(ctx context.Context, workerID uuid.UUID, entryTime *time.Time, faltou bool) (*TimeLog, error)
	CloseOpenLog(ctx context.Context, workerID uuid.UUID, leaveTime time.Time) (*TimeLog, error)
}

// Service aplica validação e regras de negócio sobre funcionários.
type Service struct {
	store Store
}

// NewService cria o serviço com o repositório injetado.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List devolve funcionários filtrados por status quando informado.
func (s *Service) List(ctx context.Context, status string) ([]Worker, error) {
	workers, err := s.store.List(ctx, status)
	if err != nil {
		log.Error().Err(err).Msg("erro ao listar funcionários")
		return nil, apperr.Internal("erro ao listar funcionários").WithCause(err)
	}
	return workers, nil
}

// Get busca um funcionário pelo id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Worker, error) {
	w, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return w, nil
}

// Create valida e persiste um novo funcionário.
func (s *Service) Create(ctx context.Context, input *Input) (*Worker, error) {
	w, err := fromInput(input)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, w)
	if err != nil {
		return nil, s.mapError(err, uuid.Nil)
	}
	return created, nil
}

// Update valida e substitui os dados do funcionário.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input *Input) (*Worker, error) {
	w, err := fromInput(input)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, w)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return updated, nil
}

// Delete remove o funcionário.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapError(err, id)
	}
	return nil
}

// RegisterEntry registra o horário de entrada do dia.
func (s *Service) RegisterEntry(ctx context.Context, id uuid.UUID) (*TimeLog, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, s.mapError(err, id)
	}

	now := time.Now()
	logEntry, err := s.store.AddLog(ctx, id, &now, false)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return logEntry, nil
}

// RegisterExit fecha o registro de ponto aberto.
func (s *Service) RegisterExit(ctx context.Context, id uuid.UUID) (*TimeLog, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, s.mapError(err, id)
	}

	logEntry, err := s.store.CloseOpenLog(ctx, id, time.Now())
	if err != nil {
		if errors.Is(err, ErrNoOpenLog) {
			return nil, apperr.Validation("Validation error", "não há entrada registrada para fechar")
		}
		return nil, s.mapError(err, id)
	}
	return logEntry, nil
}

// RegisterAbsence marca falta na data corrente.
func (s *Service) RegisterAbsence(ctx context.Context, id uuid.UUID) (*TimeLog, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, s.mapError(err, id)
	}

	logEntry, err := s.store.AddLog(ctx, id, nil, true)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return logEntry, nil
}

func (s *Service) mapError(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Funcionário não encontrado")
	case errors.Is(err, ErrDuplicateCPF):
		return apperr.Conflict("CPF já cadastrado")
	default:
		log.Error().Err(err).Stringer("worker_id", id).Msg("erro no serviço de funcionários")
		return apperr.Internal("erro interno").WithCause(err)
	}
}

func fromInput(input *Input) (*Worker, error) {
	if details := input.Validate(); len(details) > 0 {
		return nil, apperr.Validation("Validation error", details...)
	}

	nascimento, _ := parseDate(input.Nascimento)
	admissao, _ := parseDate(input.Admissao)

	status := input.Status
	if status == "" {
		status = "active"
	}

	return &Worker{
		Name:       input.Name,
		CPF:        input.CPF,
		Email:      input.Email,
		Numero:     input.Numero,
		Address:    input.Address,
		Role:       input.Role,
		Contract:   input.Contract,
		Salario:    input.Salario,
		Nascimento: nascimento,
		Admissao:   admissao,
		Status:     status,
	}, nil
}
