package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifica falhas de negócio de forma estável para os handlers.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "AUTH"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// Error carrega tipo, status HTTP e detalhes de campo de uma falha.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause anexa o erro de origem sem alterar a mensagem externa.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// Validation indica entrada malformada; details lista mensagens por campo.
func Validation(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Details: details}
}

// Unauthorized indica credencial ausente ou inválida.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// Forbidden indica papel sem permissão para a rota.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusForbidden, Message: message}
}

// NotFound indica entidade ou referência obrigatória inexistente.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// Conflict indica violação de unicidade.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Message: message}
}

// Internal indica falha não prevista; a causa nunca chega ao cliente.
func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message}
}

// From normaliza qualquer erro para *Error, tratando desconhecidos como internos.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("erro interno").WithCause(err)
}
