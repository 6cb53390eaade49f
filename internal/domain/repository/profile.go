package repository

import (
	"context"
	"time"
)

// Profile es el perfil de aplicación asociado 1:1 a una identidad.
type Profile struct {
	ID               string
	UserID           string
	DisplayName      *string
	Role             Role
	Phone            *string
	EmergencyContact *string
	// CreatedBy es el cuidador que aprovisionó al paciente; nil para auto-registro.
	CreatedBy *string
	CreatedAt time.Time
}

// InsertProfileInput contiene los datos para crear un perfil.
type InsertProfileInput struct {
	UserID           string
	DisplayName      *string
	Role             Role
	Phone            *string
	EmergencyContact *string
	CreatedBy        *string
}

// ProfileRepository define operaciones sobre perfiles. No hay update:
// el rol es inmutable una vez creado.
type ProfileRepository interface {
	// GetByUserID retorna ErrNotFound si la identidad no tiene perfil.
	GetByUserID(ctx context.Context, userID string) (*Profile, error)

	// Insert crea el perfil. Un segundo perfil para el mismo user retorna ErrConflict;
	// un user inexistente retorna ErrInvalidInput.
	Insert(ctx context.Context, in InsertProfileInput) (*Profile, error)

	// ListCreatedBy lista los perfiles de pacientes aprovisionados por caregiverID.
	ListCreatedBy(ctx context.Context, caregiverID string) ([]Profile, error)
}
