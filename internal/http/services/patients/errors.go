package patients

import (
	"errors"
	"fmt"
)

// Kind clasifica las fallas del aprovisionamiento.
type Kind int

const (
	KindUnexpectedFailure Kind = iota
	KindUnauthenticated
	KindForbidden
	KindInvalidInput
	KindProvisioningFailed
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindInvalidInput:
		return "invalid_input"
	case KindProvisioningFailed:
		return "provisioning_failed"
	default:
		return "unexpected_failure"
	}
}

// Mensajes expuestos al cliente.
const (
	MsgNoAuthorization   = "No authorization header"
	MsgInvalidAuth       = "Invalid authentication"
	MsgOnlyCaregivers    = "Only caregivers can create patient accounts"
	MsgNameEmailRequired = "Name and email are required"
	MsgInvalidEmail      = "Invalid email address"
)

// Error es un error tipado del dominio patients. Message es seguro para el cliente.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("patients: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("patients: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf retorna el Kind de err; cualquier error no tipado es KindUnexpectedFailure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpectedFailure
}
