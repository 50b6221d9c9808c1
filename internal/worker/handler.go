package worker

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestaorh/plataforma/internal/api"
	"github.com/gestaorh/plataforma/internal/apperr"
)

// Handler expõe as rotas HTTP de funcionários.
type Handler struct {
	svc *Service
}

// NewHandler cria o handler com o serviço injetado.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes monta as rotas relativas ao prefixo do serviço.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/entry", h.RegisterEntry)
	r.Post("/{id}/exit", h.RegisterExit)
	r.Post("/{id}/absence", h.RegisterAbsence)
}

// List devolve os funcionários, com filtro opcional por status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	workers, err := h.svc.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	if workers == nil {
		workers = []Worker{}
	}
	api.WriteJSON(w, http.StatusOK, workers)
}

// Get devolve um funcionário pelo id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	worker, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, worker)
}

// Create registra um novo funcionário.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeInput(r)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Update substitui os dados de um funcionário.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	input, err := decodeInput(r)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	updated, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

// Delete remove um funcionário.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterEntry registra entrada de ponto.
func (h *Handler) RegisterEntry(w http.ResponseWriter, r *http.Request) {
	h.timeLog(w, r, h.svc.RegisterEntry)
}

// RegisterExit registra saída de ponto.
func (h *Handler) RegisterExit(w http.ResponseWriter, r *http.Request) {
	h.timeLog(w, r, h.svc.RegisterExit)
}

// RegisterAbsence registra falta.
func (h *Handler) RegisterAbsence(w http.ResponseWriter, r *http.Request) {
	h.timeLog(w, r, h.svc.RegisterAbsence)
}

func (h *Handler) timeLog(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*TimeLog, error)) {
	id, err := pathID(r)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	logEntry, err := fn(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, logEntry)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Validation error", "id inválido")
	}
	return id, nil
}

func decodeInput(r *http.Request) (*Input, error) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, apperr.Validation("JSON inválido")
	}
	return &input, nil
}
