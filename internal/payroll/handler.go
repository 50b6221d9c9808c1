package payroll

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestaorh/plataforma/internal/api"
	"github.com/gestaorh/plataforma/internal/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/month", h.ListByMonth)
	r.Post("/process", h.Process)
	r.Post("/process-monthly", h.ProcessMonthly)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/mark-paid", h.MarkPaid)
	r.Get("/{id}/pdf", h.PDF)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	payrolls, err := h.svc.List(r.Context())
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	if payrolls == nil {
		payrolls = []Payroll{}
	}
	api.WriteJSON(w, http.StatusOK, payrolls)
}

func (h *Handler) ListByMonth(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		api.WriteAppError(w, apperr.Validation("Dados inválidos", "month inválido"))
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		api.WriteAppError(w, apperr.Validation("Dados inválidos", "year inválido"))
		return
	}

	payrolls, err := h.svc.ListByMonthYear(r.Context(), month, year)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	if payrolls == nil {
		payrolls = []Payroll{}
	}
	api.WriteJSON(w, http.StatusOK, payrolls)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	var input ProcessInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteAppError(w, apperr.Validation("JSON inválido"))
		return
	}

	created, err := h.svc.Process(r.Context(), &input)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ProcessMonthly(w http.ResponseWriter, r *http.Request) {
	var input MonthlyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteAppError(w, apperr.Validation("JSON inválido"))
		return
	}

	summary, err := h.svc.ProcessMonthly(r.Context(), &input)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.MarkPaid(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

// PDF ainda não gera o documento; a rota existe para o contrato da API.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	api.WriteError(w, http.StatusNotImplemented,
		"Geração de PDF ainda não disponível", nil)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteAppError(w, apperr.Validation("id inválido"))
		return uuid.Nil, false
	}
	return id, true
}
