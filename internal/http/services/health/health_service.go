// Package health contiene el service de readiness.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/elderwatch/internal/http/dto/health"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	StoreCheck func(ctx context.Context) error // crítico
	CacheCheck func(ctx context.Context) error // no crítico
	Version    string
	Timeout    time.Duration
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	resp := dto.HealthResponse{
		Version:    s.deps.Version,
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
	}

	critical := false
	degraded := false

	if s.deps.StoreCheck == nil {
		resp.Components["store"] = dto.HealthStatus{Status: "error", Message: "store not initialized"}
		critical = true
	} else if err := s.probe(ctx, s.deps.StoreCheck); err != nil {
		resp.Components["store"] = dto.HealthStatus{Status: "error", Message: err.Error()}
		critical = true
		log.Error("store unavailable", logger.Err(err))
	} else {
		resp.Components["store"] = dto.HealthStatus{Status: "ok"}
	}

	if s.deps.CacheCheck != nil {
		if err := s.probe(ctx, s.deps.CacheCheck); err != nil {
			resp.Components["cache"] = dto.HealthStatus{Status: "error", Message: err.Error()}
			degraded = true
			log.Warn("cache unavailable", logger.Err(err))
		} else {
			resp.Components["cache"] = dto.HealthStatus{Status: "ok"}
		}
	}

	switch {
	case critical:
		resp.Status = "unavailable"
	case degraded:
		resp.Status = "degraded"
	default:
		resp.Status = "ready"
	}
	return resp
}

func (s *healthService) probe(ctx context.Context, check func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()
	return check(cctx)
}
