package patients

import svc "github.com/dropDatabas3/elderwatch/internal/http/services/patients"

// Controllers agrupa los controllers del dominio patients.
type Controllers struct {
	Patients *PatientsController
}

// NewControllers crea el agregador de controllers de patients.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Patients: NewPatientsController(s.Provision, s.Links),
	}
}
