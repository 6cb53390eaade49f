// Package dashboard es el modelo de lectura de los dashboards: muestras de
// salud, alertas derivadas y el overview del cuidador.
package dashboard

import (
	"time"

	"github.com/dropDatabas3/elderwatch/internal/cache"
	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
)

// Deps contiene las dependencias del dominio dashboard.
type Deps struct {
	Health      repository.HealthRepository
	Links       repository.CareLinkRepository
	Cache       cache.Client
	OverviewTTL time.Duration
	Window      Window
}

// Services agrupa los services del dominio dashboard.
type Services struct {
	Samples  SamplesService
	Overview OverviewService
}

// NewServices crea el agregador de services de dashboard.
func NewServices(d Deps) Services {
	return Services{
		Samples:  NewSamplesService(d.Health, d.Links, d.Window),
		Overview: NewOverviewService(d.Health, d.Links, d.Cache, d.OverviewTTL, d.Window),
	}
}
