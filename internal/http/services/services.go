// Package services agrupa todos los services HTTP.
// Este es el "composition root" de services: cada dominio expone su propio
// aggregator (Deps, Services, NewServices) y aquí se arman juntos.
//
//	svcs := services.New(deps)
//	// svcs.Patients.Provision, svcs.Auth.SignIn, svcs.Dashboard.Overview, etc.
package services

import (
	"time"

	"github.com/dropDatabas3/elderwatch/internal/cache"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/http/services/auth"
	"github.com/dropDatabas3/elderwatch/internal/http/services/dashboard"
	"github.com/dropDatabas3/elderwatch/internal/http/services/health"
	"github.com/dropDatabas3/elderwatch/internal/http/services/patients"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
	"github.com/dropDatabas3/elderwatch/internal/store"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Infraestructura ───
	Store    store.AdapterConnection
	Provider *identity.Provider
	Cache    cache.Client

	// ─── Configuración ───
	Routes      access.Routes
	Policy      password.Policy
	OverviewTTL time.Duration
	Window      dashboard.Window
	Version     string

	// TempPassword reemplaza el generador de passwords temporales (tests).
	TempPassword func() (string, error)
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Access    access.Services
	Auth      auth.Services
	Patients  patients.Services
	Dashboard dashboard.Services
	Health    health.Services
}

// New crea el agregador de services. Este es el único lugar donde se instancian.
func New(d Deps) *Services {
	st := d.Store
	if d.Cache == nil {
		d.Cache = cache.NewMemory(d.OverviewTTL)
	}

	dash := dashboard.NewServices(dashboard.Deps{
		Health:      st.HealthSamples(),
		Links:       st.CareLinks(),
		Cache:       d.Cache,
		OverviewTTL: d.OverviewTTL,
		Window:      d.Window,
	})

	return &Services{
		Access: access.NewServices(access.Deps{
			Sessions: d.Provider,
			Profiles: st.Profiles(),
			Routes:   d.Routes,
		}),
		Auth: auth.NewServices(auth.Deps{
			Provider:   d.Provider,
			Identities: st.Identities(),
			Profiles:   st.Profiles(),
			Policy:     d.Policy,
			Routes:     d.Routes,
		}),
		Patients: patients.NewServices(patients.Deps{
			Identity:     d.Provider,
			Profiles:     st.Profiles(),
			Links:        st.CareLinks(),
			Overview:     dash.Overview,
			TempPassword: d.TempPassword,
		}),
		Dashboard: dash,
		Health: health.NewServices(health.Deps{
			StoreCheck: st.Ping,
			CacheCheck: d.Cache.Ping,
			Version:    d.Version,
		}),
	}
}
