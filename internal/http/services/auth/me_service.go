package auth

import (
	"context"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// MeResult es la identidad del llamador con su perfil (nil si no tiene).
type MeResult struct {
	Identity *repository.Identity
	Profile  *repository.Profile
}

type MeService interface {
	Me(ctx context.Context, userID string) (*MeResult, error)
}

type meService struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
}

func NewMeService(identities repository.IdentityRepository, profiles repository.ProfileRepository) MeService {
	return &meService{identities: identities, profiles: profiles}
}

func (s *meService) Me(ctx context.Context, userID string) (*MeResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.me"),
		logger.Op("Me"),
		logger.UserID(userID),
	)

	ident, err := s.identities.GetByID(ctx, userID)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("identity lookup failed", logger.Err(err))
		}
		return nil, err
	}
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil && !repository.IsNotFound(err) {
		log.Error("profile lookup failed", logger.Err(err))
		return nil, err
	}
	return &MeResult{Identity: ident, Profile: prof}, nil
}
