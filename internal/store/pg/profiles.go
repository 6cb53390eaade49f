package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
)

type profileRepo struct {
	pool *pgxpool.Pool
}

const profileColumns = `id::text, user_id::text, display_name, role, phone, emergency_contact, created_by::text, created_at`

func scanProfile(row pgx.Row) (*repository.Profile, error) {
	var (
		p    repository.Profile
		role string
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.DisplayName, &role, &p.Phone, &p.EmergencyContact, &p.CreatedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Role = repository.ParseRole(role)
	return &p, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*repository.Profile, error) {
	userID, ok := canonicalID(userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	p, err := scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1::uuid`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get profile: %w", err)
	}
	return p, nil
}

func (r *profileRepo) Insert(ctx context.Context, in repository.InsertProfileInput) (*repository.Profile, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("pg: insert profile: %w: role %q", repository.ErrInvalidInput, in.Role)
	}
	if err := canonicalIDs("insert profile", &in.UserID); err != nil {
		return nil, err
	}
	createdBy := nullIfEmpty(in.CreatedBy)
	if createdBy != nil {
		c := *createdBy
		if err := canonicalIDs("insert profile", &c); err != nil {
			return nil, err
		}
		createdBy = &c
	}
	p, err := scanProfile(r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, display_name, role, phone, emergency_contact, created_by)
		VALUES ($1::uuid, $2, $3, $4, $5, $6::uuid)
		RETURNING `+profileColumns,
		in.UserID, nullIfEmpty(in.DisplayName), string(in.Role),
		nullIfEmpty(in.Phone), nullIfEmpty(in.EmergencyContact), createdBy,
	))
	if err != nil {
		return nil, mapPgErr("insert profile", err)
	}
	return p, nil
}

func (r *profileRepo) ListCreatedBy(ctx context.Context, caregiverID string) ([]repository.Profile, error) {
	caregiverID, ok := canonicalID(caregiverID)
	if !ok {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE created_by = $1::uuid AND role = 'patient'
		ORDER BY created_at DESC`, caregiverID)
	if err != nil {
		return nil, fmt.Errorf("pg: list profiles: %w", err)
	}
	defer rows.Close()

	var out []repository.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("pg: scan profile: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
