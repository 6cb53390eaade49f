package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	ctrl "github.com/dropDatabas3/elderwatch/internal/http/controllers/patients"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/rate"
)

// PatientsRouterDeps contiene las dependencias para el router de pacientes.
type PatientsRouterDeps struct {
	Controllers *ctrl.Controllers
	Sessions    access.SessionVerifier
	Roles       mw.RoleChecker
	Limiter     rate.Limiter // opcional, sólo aprovisionamiento
}

// RegisterPatientsRoutes registra /v1/patients.
func RegisterPatientsRoutes(r chi.Router, deps PatientsRouterDeps) {
	c := deps.Controllers.Patients

	// POST /v1/patients: el controller resuelve auth y rol para respetar
	// los mensajes y el orden de validación del aprovisionamiento.
	chain := []mw.Middleware{mw.WithNoStore()}
	if deps.Limiter != nil {
		chain = append(chain, mw.WithRateLimit(mw.RateLimitConfig{Limiter: deps.Limiter, Bucket: "provision"}))
	}
	provision := mw.Chain(http.HandlerFunc(c.Create), chain...)
	r.Method(http.MethodPost, "/v1/patients", provision)
	r.Method(http.MethodPost, "/functions/v1/create-patient", provision)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession(deps.Sessions), mw.RequireRole(deps.Roles, repository.RoleCaregiver))

		// GET /v1/patients
		r.Get("/v1/patients", c.List)
		// POST /v1/patients/links/reconcile
		r.Post("/v1/patients/links/reconcile", c.Reconcile)
	})
}
