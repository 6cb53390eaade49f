package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/elderwatch/internal/http/controllers/health"
)

// HealthRouterDeps contiene las dependencias para las rutas de ops.
type HealthRouterDeps struct {
	Controllers *ctrl.Controllers
	Metrics     http.Handler
}

// RegisterHealthRoutes registra /readyz y /metrics. Son públicas.
func RegisterHealthRoutes(r chi.Router, deps HealthRouterDeps) {
	r.Get("/readyz", deps.Controllers.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
}
