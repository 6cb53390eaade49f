package health

import svc "github.com/dropDatabas3/elderwatch/internal/http/services/health"

type Controllers struct {
	Health *HealthController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Health: NewHealthController(s.Health)}
}
