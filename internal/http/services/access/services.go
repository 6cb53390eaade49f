package access

import "github.com/dropDatabas3/elderwatch/internal/domain/repository"

// Deps contiene las dependencias del dominio access.
type Deps struct {
	Sessions SessionVerifier
	Profiles repository.ProfileRepository
	Routes   Routes
}

// Services agrupa los services del dominio access.
type Services struct {
	Access AccessService
}

// NewServices crea el agregador de services de access.
func NewServices(d Deps) Services {
	return Services{
		Access: NewAccessService(d.Sessions, d.Profiles, d.Routes),
	}
}
