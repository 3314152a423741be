// Package apierror provides the typed error variants handlers understand and
// the error envelope sent to clients. Every failure goes through this package
// so the externally visible message stays generic while the cause is kept for
// the logs.
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure; each kind maps to exactly one HTTP status.
type Kind int

const (
	KindInfraestructura   Kind = iota // store unreachable, panics, unknown failures
	KindValidacion                    // missing or malformed input, rejected before any I/O
	KindNoEncontrado                  // identifier with no matching row
	KindEjecucion                     // the statement ran and the engine refused it
	KindMetodoNoPermitido             // wrong HTTP verb for the endpoint
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidacion:
		return http.StatusBadRequest
	case KindNoEncontrado:
		return http.StatusNotFound
	case KindEjecucion:
		return http.StatusServiceUnavailable
	case KindMetodoNoPermitido:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidacion:
		return "validacion"
	case KindNoEncontrado:
		return "no_encontrado"
	case KindEjecucion:
		return "ejecucion"
	case KindMetodoNoPermitido:
		return "metodo_no_permitido"
	default:
		return "infraestructura"
	}
}

// Error is a classified failure. Message is safe to show to clients; Err is
// the underlying cause and is only logged (or exposed in diagnostic mode).
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validacion(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidacion, Message: msg, Fields: fields}
}

func NoEncontrado(msg string) *Error {
	return &Error{Kind: KindNoEncontrado, Message: msg}
}

func Ejecucion(msg string, err error) *Error {
	return &Error{Kind: KindEjecucion, Message: msg, Err: err}
}

func Infraestructura(msg string, err error) *Error {
	return &Error{Kind: KindInfraestructura, Message: msg, Err: err}
}

func MetodoNoPermitido() *Error {
	return &Error{Kind: KindMetodoNoPermitido, Message: "Método no permitido para este endpoint."}
}

// MensajeInterno is the only text clients see for unclassified failures.
const MensajeInterno = "Error interno del servidor."

// From returns err as *Error, wrapping unknown errors as infrastructure failures.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Infraestructura(MensajeInterno, err)
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Success: false, Message: msg}
}

// Envelope builds the client-facing body for err. The raw cause is attached
// only when exposeDetail is set.
func Envelope(err *Error, exposeDetail bool) *APIError {
	body := &APIError{Success: false, Message: err.Message, Fields: err.Fields}
	if exposeDetail && err.Err != nil {
		body.Detail = err.Err.Error()
	}
	return body
}
