package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// SignInResult es la sesión emitida más el dashboard que le corresponde.
type SignInResult struct {
	AccessToken string
	ExpiresAt   time.Time
	UserID      string
	Email       string
	Role        repository.Role
	RedirectTo  string
}

// SignInService autentica con email + password.
type SignInService interface {
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
}

type signInService struct {
	idp      Provider
	profiles repository.ProfileRepository
	routes   access.Routes
}

// NewSignInService crea el service de sign-in.
func NewSignInService(idp Provider, profiles repository.ProfileRepository, routes access.Routes) SignInService {
	return &signInService{idp: idp, profiles: profiles, routes: routes}
}

func (s *signInService) SignIn(ctx context.Context, email, pw string) (*SignInResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.signin"),
		logger.Op("SignIn"),
	)

	if strings.TrimSpace(email) == "" || pw == "" {
		return nil, ErrMissingFields
	}

	sess, err := s.idp.SignIn(ctx, email, pw)
	if err != nil {
		if !errors.Is(err, identity.ErrInvalidCredentials) {
			log.Error("sign in failed", logger.Err(err))
		}
		return nil, err
	}
	userID := sess.Identity.ID

	role := repository.RoleUnknown
	prof, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		role = prof.Role
	case repository.IsNotFound(err):
		log.Warn("signed in without profile", logger.UserID(userID))
	default:
		log.Error("profile lookup failed", logger.UserID(userID), logger.Err(err))
		return nil, err
	}

	log.Info("signed in", logger.UserID(userID), logger.Role(role.String()))
	return &SignInResult{
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
		UserID:      userID,
		Email:       sess.Identity.Email,
		Role:        role,
		RedirectTo:  s.routes.ForRole(role),
	}, nil
}
