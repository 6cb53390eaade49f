package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/elderwatch/internal/http/controllers/access"
)

type AccessRouterDeps struct {
	Controllers *ctrl.Controllers
}

// RegisterAccessRoutes registra GET /v1/access. El token es opcional:
// sin sesión la decisión es redirigir a sign-in.
func RegisterAccessRoutes(r chi.Router, deps AccessRouterDeps) {
	r.Get("/v1/access", deps.Controllers.Access.Check)
}
