package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// ErrForbidden: el llamador no es el usuario ni un cuidador vinculado.
var ErrForbidden = errors.New("not allowed to read these samples")

// SamplesResult son las muestras recientes (más nuevas primero) y sus alertas.
type SamplesResult struct {
	UserID  string
	Samples []repository.HealthSample
	Alerts  []Alert
	Status  Severity
}

// SamplesService lee muestras de salud para los dashboards.
type SamplesService interface {
	// Samples permite leer las propias o las de un paciente vinculado.
	Samples(ctx context.Context, callerID, userID string) (*SamplesResult, error)
}

// Window acota la lectura de muestras.
type Window struct {
	Period     time.Duration
	MaxSamples int
}

type samplesService struct {
	health repository.HealthRepository
	links  repository.CareLinkRepository
	window Window
	now    func() time.Time
}

func NewSamplesService(health repository.HealthRepository, links repository.CareLinkRepository, w Window) SamplesService {
	return &samplesService{health: health, links: links, window: w, now: time.Now}
}

func (s *samplesService) Samples(ctx context.Context, callerID, userID string) (*SamplesResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("dashboard"),
		logger.Op("Samples"),
		logger.UserID(callerID),
		logger.PatientID(userID),
	)

	if callerID != userID {
		ok, err := s.links.Exists(ctx, callerID, userID)
		if err != nil {
			log.Error("link lookup failed", logger.Err(err))
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
	}

	samples, err := s.health.ListByUser(ctx, userID, s.filter())
	if err != nil {
		log.Error("list samples failed", logger.Err(err))
		return nil, err
	}
	alerts := DeriveAlerts(samples)
	return &SamplesResult{UserID: userID, Samples: samples, Alerts: alerts, Status: Status(alerts)}, nil
}

func (s *samplesService) filter() repository.HealthFilter {
	return windowFilter(s.window, s.now())
}

func windowFilter(w Window, now time.Time) repository.HealthFilter {
	f := repository.HealthFilter{Limit: w.MaxSamples}
	if w.Period > 0 {
		f.Since = now.Add(-w.Period)
	}
	return f
}
