package auth

import (
	"errors"

	"github.com/dropDatabas3/elderwatch/internal/security/password"
)

var (
	ErrMissingFields = errors.New("email and password are required")
	ErrInvalidEmail  = errors.New("invalid email address")
)

// PolicyError indica que el password no cumple la política.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string { return password.Describe(e.Reasons) }
