// Package errors define el error HTTP estándar de la API y su serialización.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError es el error que llega al cliente: código estable, mensaje y status.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa original, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func Wrap(err error, status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// FromError convierte cualquier error en AppError; lo desconocido es 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrUnexpectedFailure.WithCause(err)
}

// WithMessage devuelve una COPIA con otro mensaje.
func (e *AppError) WithMessage(msg string) *AppError {
	c := *e
	c.Message = msg
	return &c
}

// WithDetail devuelve una COPIA con detalle.
func (e *AppError) WithDetail(detail string) *AppError {
	c := *e
	c.Detail = detail
	return &c
}

// WithCause devuelve una COPIA con la causa.
func (e *AppError) WithCause(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

// Códigos estables expuestos en el campo "code".
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeProvisioningFailed = "PROVISIONING_FAILED"
	CodeUnexpectedFailure  = "UNEXPECTED_FAILURE"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
)

// ---- 400 ----

var (
	ErrInvalidInput    = New(http.StatusBadRequest, CodeInvalidInput, "Invalid input")
	ErrInvalidJSON     = New(http.StatusBadRequest, CodeInvalidJSON, "Request body is not valid JSON")
	ErrProvisioning    = New(http.StatusBadRequest, CodeProvisioningFailed, "Provisioning failed")
	ErrConflict        = New(http.StatusConflict, CodeConflict, "Resource already exists")
	ErrNotFound        = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrMethodNotAllowed = New(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
)

// ---- 401 / 403 ----

var (
	ErrUnauthenticated    = New(http.StatusUnauthorized, CodeUnauthenticated, "Invalid authentication")
	ErrInvalidCredentials = New(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password")
	ErrForbidden          = New(http.StatusForbidden, CodeForbidden, "Forbidden")
)

// ---- 429 / 5xx ----

var (
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimited, "Too many requests")
	ErrUnexpectedFailure  = New(http.StatusInternalServerError, CodeUnexpectedFailure, "Internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service unavailable")
)
