package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	ctrl "github.com/dropDatabas3/elderwatch/internal/http/controllers/dashboard"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
)

type DashboardRouterDeps struct {
	Controllers *ctrl.Controllers
	Sessions    access.SessionVerifier
	Roles       mw.RoleChecker
}

// RegisterDashboardRoutes registra las lecturas de dashboards.
func RegisterDashboardRoutes(r chi.Router, deps DashboardRouterDeps) {
	c := deps.Controllers.Dashboard

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession(deps.Sessions))

		// GET /v1/patients/{id}/health: propio o paciente vinculado (lo valida el service)
		r.Get("/v1/patients/{id}/health", c.Samples)

		r.With(mw.RequireRole(deps.Roles, repository.RoleCaregiver)).
			Get("/v1/dashboard/overview", c.Overview)
	})
}
