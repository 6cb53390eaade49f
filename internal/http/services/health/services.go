package health

// Services agrupa los services de health.
type Services struct {
	Health HealthService
}

// NewServices crea el agregador de services de health.
func NewServices(d Deps) Services {
	return Services{Health: NewHealthService(d)}
}
