// Package router arma el árbol de rutas chi del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/elderwatch/internal/http/controllers"
	httperrors "github.com/dropDatabas3/elderwatch/internal/http/errors"
	"github.com/dropDatabas3/elderwatch/internal/http/metrics"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/rate"
)

// Limiters son los rate limiters por endpoint; cualquiera puede ser nil.
type Limiters struct {
	SignIn    rate.Limiter
	SignUp    rate.Limiter
	Provision rate.Limiter
}

// Deps contiene todo lo necesario para registrar rutas.
type Deps struct {
	Controllers *controllers.Controllers
	Sessions    access.SessionVerifier
	Roles       mw.RoleChecker
	CORS        mw.CORSConfig
	Limiters    Limiters
	// Metrics es el handler de /metrics; nil lo deshabilita.
	Metrics http.Handler
}

// New crea el handler raíz.
//
// CORS va a nivel mux (antes del ruteo) para que el preflight OPTIONS
// se conteste en cualquier ruta.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithCORS(d.CORS),
		metrics.WithMetrics,
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Ops: sin logging por request (muy frecuentes).
	RegisterHealthRoutes(r, HealthRouterDeps{Controllers: d.Controllers.Health, Metrics: d.Metrics})

	r.Group(func(r chi.Router) {
		r.Use(mw.WithSecurityHeaders(), mw.WithLogging())

		RegisterAuthRoutes(r, AuthRouterDeps{
			Controllers: d.Controllers.Auth,
			Sessions:    d.Sessions,
			SignIn:      d.Limiters.SignIn,
			SignUp:      d.Limiters.SignUp,
		})
		RegisterAccessRoutes(r, AccessRouterDeps{Controllers: d.Controllers.Access})
		RegisterPatientsRoutes(r, PatientsRouterDeps{
			Controllers: d.Controllers.Patients,
			Sessions:    d.Sessions,
			Roles:       d.Roles,
			Limiter:     d.Limiters.Provision,
		})
		RegisterDashboardRoutes(r, DashboardRouterDeps{
			Controllers: d.Controllers.Dashboard,
			Sessions:    d.Sessions,
			Roles:       d.Roles,
		})
	})

	return r
}
