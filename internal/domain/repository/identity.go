package repository

import (
	"context"
	"time"
)

// IdentityMetadata viaja con la identidad y refleja el rol de origen.
type IdentityMetadata struct {
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
}

// Identity es una cuenta autenticable (email + password).
type Identity struct {
	ID            string
	Email         string
	EmailVerified bool
	PasswordHash  string
	Metadata      IdentityMetadata
	CreatedAt     time.Time
}

// CreateIdentityInput contiene los datos para crear una identidad.
// PasswordHash ya viene hasheado (argon2id PHC).
type CreateIdentityInput struct {
	Email         string
	PasswordHash  string
	EmailVerified bool
	Metadata      IdentityMetadata
}

// IdentityRepository define operaciones sobre identidades.
type IdentityRepository interface {
	// Create inserta una identidad. El email es único (case-insensitive);
	// un duplicado retorna ErrConflict.
	Create(ctx context.Context, in CreateIdentityInput) (*Identity, error)

	// GetByID retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Identity, error)

	// GetByEmail retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*Identity, error)

	// Delete elimina la identidad y, en cascada, su perfil y links.
	// Retorna ErrNotFound si no existía.
	Delete(ctx context.Context, id string) error
}
