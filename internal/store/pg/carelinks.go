package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
)

type careLinkRepo struct {
	pool *pgxpool.Pool
}

func (r *careLinkRepo) Insert(ctx context.Context, caregiverID, patientID string) (*repository.CareLink, error) {
	if err := canonicalIDs("insert care link", &caregiverID, &patientID); err != nil {
		return nil, err
	}
	var l repository.CareLink
	err := r.pool.QueryRow(ctx, `
		INSERT INTO caregiver_patients (caregiver_id, patient_id)
		VALUES ($1::uuid, $2::uuid)
		RETURNING id::text, caregiver_id::text, patient_id::text, created_at`,
		caregiverID, patientID,
	).Scan(&l.ID, &l.CaregiverID, &l.PatientID, &l.CreatedAt)
	if err != nil {
		return nil, mapPgErr("insert care link", err)
	}
	return &l, nil
}

func (r *careLinkRepo) Exists(ctx context.Context, caregiverID, patientID string) (bool, error) {
	caregiverID, okC := canonicalID(caregiverID)
	patientID, okP := canonicalID(patientID)
	if !okC || !okP {
		return false, nil
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM caregiver_patients
			WHERE caregiver_id = $1::uuid AND patient_id = $2::uuid
		)`, caregiverID, patientID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("pg: care link exists: %w", err)
	}
	return ok, nil
}

func (r *careLinkRepo) ListPatients(ctx context.Context, caregiverID string) ([]repository.LinkedPatient, error) {
	caregiverID, ok := canonicalID(caregiverID)
	if !ok {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT l.id::text, l.caregiver_id::text, l.patient_id::text, l.created_at,
		       p.id::text, p.user_id::text, p.display_name, p.role, p.phone, p.emergency_contact, p.created_by::text, p.created_at,
		       i.email
		FROM caregiver_patients l
		JOIN profiles p ON p.user_id = l.patient_id
		JOIN identities i ON i.id = l.patient_id
		WHERE l.caregiver_id = $1::uuid
		ORDER BY l.created_at DESC`, caregiverID)
	if err != nil {
		return nil, fmt.Errorf("pg: list linked patients: %w", err)
	}
	defer rows.Close()

	var out []repository.LinkedPatient
	for rows.Next() {
		var (
			lp   repository.LinkedPatient
			role string
		)
		if err := rows.Scan(
			&lp.Link.ID, &lp.Link.CaregiverID, &lp.Link.PatientID, &lp.Link.CreatedAt,
			&lp.Profile.ID, &lp.Profile.UserID, &lp.Profile.DisplayName, &role,
			&lp.Profile.Phone, &lp.Profile.EmergencyContact, &lp.Profile.CreatedBy, &lp.Profile.CreatedAt,
			&lp.Email,
		); err != nil {
			return nil, fmt.Errorf("pg: scan linked patient: %w", err)
		}
		lp.Profile.Role = repository.ParseRole(role)
		out = append(out, lp)
	}
	return out, rows.Err()
}
