package patients

import (
	"context"

	"github.com/dropDatabas3/elderwatch/internal/audit"
	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// ReconcileResult reporta la reparación de links.
type ReconcileResult struct {
	Checked  int
	Repaired []string
	Failed   []string
}

// LinkService opera sobre los pacientes vinculados a un cuidador.
type LinkService interface {
	List(ctx context.Context, caregiverID string) ([]repository.LinkedPatient, error)
	// ReconcileLinks crea los links faltantes de pacientes aprovisionados por el cuidador.
	ReconcileLinks(ctx context.Context, caregiverID string) (*ReconcileResult, error)
}

type linkService struct {
	profiles repository.ProfileRepository
	links    repository.CareLinkRepository
	overview OverviewInvalidator
}

// NewLinkService crea el service. overview puede ser nil.
func NewLinkService(profiles repository.ProfileRepository, links repository.CareLinkRepository, overview OverviewInvalidator) LinkService {
	return &linkService{profiles: profiles, links: links, overview: overview}
}

func (s *linkService) List(ctx context.Context, caregiverID string) ([]repository.LinkedPatient, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("patients"),
		logger.Op("List"),
		logger.CaregiverID(caregiverID),
	)

	out, err := s.links.ListPatients(ctx, caregiverID)
	if err != nil {
		log.Error("list patients failed", logger.Err(err))
		return nil, err
	}
	log.Debug("patients listed", logger.Count(len(out)))
	return out, nil
}

func (s *linkService) ReconcileLinks(ctx context.Context, caregiverID string) (*ReconcileResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("patients"),
		logger.Op("ReconcileLinks"),
		logger.CaregiverID(caregiverID),
	)

	created, err := s.profiles.ListCreatedBy(ctx, caregiverID)
	if err != nil {
		log.Error("list provisioned profiles failed", logger.Err(err))
		return nil, err
	}

	res := &ReconcileResult{Repaired: []string{}, Failed: []string{}}
	for _, p := range created {
		if p.Role != repository.RolePatient {
			continue
		}
		res.Checked++

		ok, err := s.links.Exists(ctx, caregiverID, p.UserID)
		if err != nil {
			log.Warn("link lookup failed", logger.PatientID(p.UserID), logger.Err(err))
			res.Failed = append(res.Failed, p.UserID)
			continue
		}
		if ok {
			continue
		}
		if _, err := s.links.Insert(ctx, caregiverID, p.UserID); err != nil && !repository.IsConflict(err) {
			log.Warn("link repair failed", logger.PatientID(p.UserID), logger.Err(err))
			res.Failed = append(res.Failed, p.UserID)
			continue
		}
		res.Repaired = append(res.Repaired, p.UserID)
	}

	if len(res.Repaired) > 0 {
		if s.overview != nil {
			s.overview.InvalidateOverview(ctx, caregiverID)
		}
		audit.Log(ctx, audit.EventLinksReconciled,
			logger.CaregiverID(caregiverID), logger.Count(len(res.Repaired)))
	}
	log.Info("links reconciled",
		logger.Int("checked", res.Checked),
		logger.Int("repaired", len(res.Repaired)),
		logger.Int("failed", len(res.Failed)),
	)
	return res, nil
}
