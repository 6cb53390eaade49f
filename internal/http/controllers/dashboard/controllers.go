package dashboard

import svc "github.com/dropDatabas3/elderwatch/internal/http/services/dashboard"

// Controllers agrupa los controllers del dominio dashboard.
type Controllers struct {
	Dashboard *DashboardController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Dashboard: NewDashboardController(s.Samples, s.Overview)}
}
