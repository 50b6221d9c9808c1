package benefit

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestaorh/plataforma/internal/api"
	"github.com/gestaorh/plataforma/internal/apperr"
)

// TypeHandler expõe as rotas HTTP de tipos de benefício.
type TypeHandler struct {
	svc *TypeService
}

// NewTypeHandler cria o handler com o serviço injetado.
func NewTypeHandler(svc *TypeService) *TypeHandler {
	return &TypeHandler{svc: svc}
}

// RegisterRoutes monta as rotas relativas ao prefixo do serviço.
func (h *TypeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/deactivate", h.Deactivate)
	r.Delete("/{id}", h.Delete)
}

// List devolve todos os tipos.
func (h *TypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.List(r.Context())
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	if types == nil {
		types = []BenefitType{}
	}
	api.WriteJSON(w, http.StatusOK, types)
}

// Get devolve um tipo pelo id.
func (h *TypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

// Create registra um novo tipo.
func (h *TypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input TypeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteAppError(w, apperr.Validation("JSON inválido"))
		return
	}

	created, err := h.svc.Create(r.Context(), &input)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Update substitui um tipo existente.
func (h *TypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	var input TypeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteAppError(w, apperr.Validation("JSON inválido"))
		return
	}

	updated, err := h.svc.Update(r.Context(), id, &input)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

// Deactivate marca o tipo como inativo.
func (h *TypeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	t, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

// Delete remove um tipo.
func (h *TypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
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

// EmployeeHandler expõe as rotas HTTP de benefícios de funcionário.
type EmployeeHandler struct {
	svc *EmployeeService
}

// NewEmployeeHandler cria o handler com o serviço injetado.
func NewEmployeeHandler(svc *EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// RegisterRoutes monta as rotas relativas ao prefixo do serviço.
func (h *EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/employee/{employeeId}", h.ListByEmployee)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/deactivate", h.Deactivate)
	r.Delete("/{id}", h.Delete)
}

// List devolve todos os vínculos.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	benefits, err := h.svc.List(r.Context())
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	if benefits == nil {
		benefits = []EmployeeBenefit{}
	}
	api.WriteJSON(w, http.StatusOK, benefits)
}

// ListByEmployee devolve os vínculos de um funcionário.
func (h *EmployeeHandler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathID(r, "employeeId")
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	benefits, err := h.svc.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	if benefits == nil {
		benefits = []EmployeeBenefit{}
	}
	api.WriteJSON(w, http.StatusOK, benefits)
}

// Get devolve um vínculo pelo id.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	eb, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, eb)
}

// Create registra um novo vínculo.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteAppError(w, apperr.Validation("JSON inválido"))
		return
	}

	created, err := h.svc.Create(r.Context(), &input)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Update substitui valor e data de início do vínculo.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	var input EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteAppError(w, apperr.Validation("JSON inválido"))
		return
	}

	updated, err := h.svc.Update(r.Context(), id, &input)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

// Deactivate encerra o vínculo.
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	eb, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, eb)
}

// Delete remove o vínculo.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
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

func pathID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, apperr.Validation("Validation error", param+" inválido")
	}
	return id, nil
}
