package api

import (
	"encoding/json"
	"net/http"

	"github.com/gestaorh/plataforma/internal/apperr"
)

// ErrorEnvelope padroniza respostas de erro em todos os serviços.
type ErrorEnvelope struct {
	Status     string   `json:"status"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

// WriteJSON serializa dados de sucesso.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError escreve o envelope de erro uniforme.
func WriteError(w http.ResponseWriter, status int, message string, details []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Status:     "error",
		StatusCode: status,
		Message:    message,
		Errors:     details,
	})
}

// WriteAppError normaliza o erro e escreve o envelope correspondente.
func WriteAppError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	WriteError(w, appErr.Status, appErr.Message, appErr.Details)
}
