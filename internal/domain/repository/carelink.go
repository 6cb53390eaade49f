package repository

import (
	"context"
	"time"
)

// CareLink vincula un cuidador con un paciente (par único).
type CareLink struct {
	ID          string
	CaregiverID string
	PatientID   string
	CreatedAt   time.Time
}

// LinkedPatient es un paciente vinculado junto a su perfil.
type LinkedPatient struct {
	Link    CareLink
	Profile Profile
	Email   string
}

// CareLinkRepository define operaciones sobre links cuidador-paciente.
type CareLinkRepository interface {
	// Insert crea el link. Un par repetido retorna ErrConflict.
	Insert(ctx context.Context, caregiverID, patientID string) (*CareLink, error)

	// Exists indica si el par existe.
	Exists(ctx context.Context, caregiverID, patientID string) (bool, error)

	// ListPatients lista los pacientes vinculados al cuidador, más recientes primero.
	ListPatients(ctx context.Context, caregiverID string) ([]LinkedPatient, error)
}
