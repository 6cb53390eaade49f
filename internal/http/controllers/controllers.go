// Package controllers agrupa todos los controllers HTTP.
// Este es el "composition root" de controllers:
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs)
//	handler := router.New(router.Deps{Controllers: ctrls, ...})
package controllers

import (
	"github.com/dropDatabas3/elderwatch/internal/http/controllers/access"
	"github.com/dropDatabas3/elderwatch/internal/http/controllers/auth"
	"github.com/dropDatabas3/elderwatch/internal/http/controllers/dashboard"
	"github.com/dropDatabas3/elderwatch/internal/http/controllers/health"
	"github.com/dropDatabas3/elderwatch/internal/http/controllers/patients"
	"github.com/dropDatabas3/elderwatch/internal/http/services"
)

// Controllers agrupa todos los sub-controllers por dominio.
type Controllers struct {
	Access    *access.Controllers
	Auth      *auth.Controllers
	Patients  *patients.Controllers
	Dashboard *dashboard.Controllers
	Health    *health.Controllers
}

// New crea el agregador de controllers con todos los services inyectados.
func New(svc *services.Services) *Controllers {
	return &Controllers{
		Access:    access.NewControllers(svc.Access),
		Auth:      auth.NewControllers(svc.Auth),
		Patients:  patients.NewControllers(svc.Patients),
		Dashboard: dashboard.NewControllers(svc.Dashboard),
		Health:    health.NewControllers(svc.Health),
	}
}
