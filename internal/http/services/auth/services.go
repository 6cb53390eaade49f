// Package auth contiene registro de cuidadores, sign-in y consulta de la cuenta propia.
package auth

import (
	"context"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
)

// Provider son las operaciones del proveedor de identidades que usa auth.
type Provider interface {
	CreateIdentity(ctx context.Context, in identity.CreateInput) (*repository.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
	SignIn(ctx context.Context, email, password string) (*identity.SignedSession, error)
	IssueSession(ident *repository.Identity) (*identity.SignedSession, error)
}

// Deps contiene las dependencias del dominio auth.
type Deps struct {
	Provider   Provider
	Identities repository.IdentityRepository
	Profiles   repository.ProfileRepository
	Policy     password.Policy
	Routes     access.Routes
}

// Services agrupa los services del dominio auth.
type Services struct {
	SignUp SignUpService
	SignIn SignInService
	Me     MeService
}

// NewServices crea el agregador de services de auth.
func NewServices(d Deps) Services {
	return Services{
		SignUp: NewSignUpService(d.Provider, d.Profiles, d.Policy),
		SignIn: NewSignInService(d.Provider, d.Profiles, d.Routes),
		Me:     NewMeService(d.Identities, d.Profiles),
	}
}
