package repository

import (
	"context"
	"time"
)

// HealthSample es una lectura puntual de un dispositivo.
type HealthSample struct {
	ID            string
	UserID        string
	HeartRate     *int
	Steps         *int
	SleepDuration *float64 // horas
	FallDetected  bool
	CreatedAt     time.Time
}

// HealthFilter acota la lectura de muestras.
type HealthFilter struct {
	Since time.Time // cero = sin límite inferior
	Limit int       // 0 = default del adapter (200)
}

// HealthRepository es el contrato de lectura del dashboard.
// Insert existe sólo para seed/demo; la API no escribe muestras.
type HealthRepository interface {
	// ListByUser retorna las muestras más recientes primero.
	ListByUser(ctx context.Context, userID string, f HealthFilter) ([]HealthSample, error)

	Insert(ctx context.Context, s HealthSample) (*HealthSample, error)
}
