// Package patients contiene el aprovisionamiento de pacientes y la gestión
// de sus links con el cuidador.
package patients

import (
	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
)

// Deps contiene las dependencias del dominio patients.
type Deps struct {
	Identity IdentityProvider
	Profiles repository.ProfileRepository
	Links    repository.CareLinkRepository
	Overview OverviewInvalidator // opcional
	// TempPassword genera el password temporal; default password.GenerateTemporary.
	TempPassword func() (string, error)
}

// Services agrupa los services del dominio patients.
type Services struct {
	Provision ProvisionService
	Links     LinkService
}

// NewServices crea el agregador de services de patients.
func NewServices(d Deps) Services {
	gen := d.TempPassword
	if gen == nil {
		gen = password.GenerateTemporary
	}
	return Services{
		Provision: NewProvisionService(d.Identity, d.Profiles, d.Links, d.Overview, gen),
		Links:     NewLinkService(d.Profiles, d.Links, d.Overview),
	}
}
