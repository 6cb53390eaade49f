package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/elderwatch/internal/cache"
	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/http/metrics"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// PatientOverview es la fila de un paciente en el dashboard del cuidador.
type PatientOverview struct {
	PatientID string                   `json:"patient_id"`
	Name      string                   `json:"name"`
	Email     string                   `json:"email"`
	LinkedAt  time.Time                `json:"linked_at"`
	Latest    *repository.HealthSample `json:"latest,omitempty"`
	Alerts    []Alert                  `json:"alerts"`
	Status    Severity                 `json:"status"`
}

// Overview es el dashboard completo de un cuidador.
type Overview struct {
	CaregiverID string            `json:"caregiver_id"`
	Patients    []PatientOverview `json:"patients"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// OverviewService arma el overview del cuidador, cacheado por un TTL corto.
type OverviewService interface {
	Overview(ctx context.Context, caregiverID string) (*Overview, error)
	// InvalidateOverview descarta el overview cacheado.
	InvalidateOverview(ctx context.Context, caregiverID string)
}

// maxFanOut acota las lecturas concurrentes por overview.
const maxFanOut = 8

type overviewService struct {
	health repository.HealthRepository
	links  repository.CareLinkRepository
	loader *cache.Loader[Overview]
	window Window
	now    func() time.Time
}

func NewOverviewService(health repository.HealthRepository, links repository.CareLinkRepository, c cache.Client, ttl time.Duration, w Window) OverviewService {
	return &overviewService{
		health: health,
		links:  links,
		loader: cache.NewLoader[Overview](c, ttl),
		window: w,
		now:    time.Now,
	}
}

func overviewKey(caregiverID string) string { return "overview:" + caregiverID }

func (s *overviewService) Overview(ctx context.Context, caregiverID string) (*Overview, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("dashboard"),
		logger.Op("Overview"),
		logger.CaregiverID(caregiverID),
	)

	ov, hit, err := s.loader.Get(ctx, overviewKey(caregiverID), func(ctx context.Context) (Overview, error) {
		return s.build(ctx, caregiverID)
	})
	if err != nil {
		log.Error("overview build failed", logger.Err(err))
		return nil, err
	}
	metrics.OverviewCache(hit)
	log.Debug("overview served", logger.Bool("cache_hit", hit), logger.Count(len(ov.Patients)))
	return &ov, nil
}

func (s *overviewService) build(ctx context.Context, caregiverID string) (Overview, error) {
	linked, err := s.links.ListPatients(ctx, caregiverID)
	if err != nil {
		return Overview{}, err
	}

	now := s.now()
	rows := make([]PatientOverview, len(linked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for i, lp := range linked {
		i, lp := i, lp
		g.Go(func() error {
			samples, err := s.health.ListByUser(gctx, lp.Profile.UserID, windowFilter(s.window, now))
			if err != nil {
				return err
			}
			row := PatientOverview{
				PatientID: lp.Profile.UserID,
				Email:     lp.Email,
				LinkedAt:  lp.Link.CreatedAt,
			}
			if lp.Profile.DisplayName != nil {
				row.Name = *lp.Profile.DisplayName
			}
			row.Alerts = DeriveAlerts(samples)
			row.Status = Status(row.Alerts)
			if len(samples) > 0 {
				latest := samples[0]
				row.Latest = &latest
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return Overview{CaregiverID: caregiverID, Patients: rows, GeneratedAt: now.UTC()}, nil
}

func (s *overviewService) InvalidateOverview(ctx context.Context, caregiverID string) {
	s.loader.Invalidate(ctx, overviewKey(caregiverID))
}
