// Package identity es el proveedor de identidades: alta y baja de cuentas,
// sign-in con password y verificación de tokens de sesión.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/jwt"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
)

var (
	// ErrInvalidSession: token vacío, inválido, expirado o de una identidad que ya no existe.
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidCredentials: email o password incorrectos (no se distingue cuál).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken: ya existe una identidad con ese email.
	ErrEmailTaken = errors.New("email already registered")
)

// Session es una sesión verificada.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// SignedSession es el resultado de emitir un token.
type SignedSession struct {
	AccessToken string
	ExpiresAt   time.Time
	Identity    *repository.Identity
}

// CreateInput son los datos para crear una identidad con password en claro.
type CreateInput struct {
	Email          string
	Password       string
	EmailConfirmed bool
	Metadata       repository.IdentityMetadata
}

// Provider implementa el proveedor sobre IdentityRepository + argon2id + JWT.
type Provider struct {
	repo   repository.IdentityRepository
	issuer *jwt.Issuer
	params password.Params
	// hash de relleno con los mismos params que los reales: un email
	// desconocido cuesta lo mismo que un password incorrecto.
	dummyPHC string
}

func NewProvider(repo repository.IdentityRepository, issuer *jwt.Issuer, params password.Params) *Provider {
	dummy, err := password.Hash(params, "elderwatch-unknown-account")
	if err != nil {
		dummy = fallbackDummyPHC
	}
	return &Provider{repo: repo, issuer: issuer, params: params, dummyPHC: dummy}
}

// NormalizeEmail aplica trim + lower.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyToken valida el token y confirma que la identidad sigue existiendo.
func (p *Provider) VerifyToken(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSession
	}
	claims, err := p.issuer.Parse(token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	ident, err := p.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("identity: lookup session subject: %w", err)
	}
	s := &Session{UserID: ident.ID, Email: ident.Email}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// CreateIdentity hashea el password y crea la identidad.
// Un email duplicado retorna ErrEmailTaken (envuelto).
func (p *Provider) CreateIdentity(ctx context.Context, in CreateInput) (*repository.Identity, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("identity: %w: email required", repository.ErrInvalidInput)
	}
	phc, err := password.Hash(p.params, in.Password)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
	}
	ident, err := p.repo.Create(ctx, repository.CreateIdentityInput{
		Email:         email,
		PasswordHash:  phc,
		EmailVerified: in.EmailConfirmed,
		Metadata:      in.Metadata,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	logger.From(ctx).Debug("identity created",
		logger.Component("identity"), logger.UserID(ident.ID), logger.Role(in.Metadata.Role.String()))
	return ident, nil
}

// DeleteIdentity elimina la identidad. Idempotente: ErrNotFound no es error.
func (p *Provider) DeleteIdentity(ctx context.Context, id string) error {
	if err := p.repo.Delete(ctx, id); err != nil && !repository.IsNotFound(err) {
		return err
	}
	return nil
}

// SignIn valida email + password y emite un token de sesión.
func (p *Provider) SignIn(ctx context.Context, email, plain string) (*SignedSession, error) {
	ident, err := p.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			_ = password.Verify(plain, p.dummyPHC)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(plain, ident.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return p.IssueSession(ident)
}

// IssueSession emite un token para una identidad ya autenticada.
func (p *Provider) IssueSession(ident *repository.Identity) (*SignedSession, error) {
	tok, exp, err := p.issuer.IssueAccess(ident.ID, ident.Email, ident.Metadata.Role.String())
	if err != nil {
		return nil, fmt.Errorf("identity: issue token: %w", err)
	}
	return &SignedSession{AccessToken: tok, ExpiresAt: exp, Identity: ident}, nil
}

// Sólo si Hash falla con los params configurados.
const fallbackDummyPHC = "$argon2id$v=19$m=65536,t=3,p=1$c29tZXNhbHRzb21lc2FsdA$OqL5rBvQ3I9l6mVq8vNmSgX0b2mJtN3pXk1Yc8wR6dE"
