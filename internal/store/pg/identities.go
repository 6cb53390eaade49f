package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
)

type identityRepo struct {
	pool *pgxpool.Pool
}

const identityColumns = `id::text, email, email_verified, password_hash, metadata, created_at`

func scanIdentity(row pgx.Row) (*repository.Identity, error) {
	var (
		ident repository.Identity
		meta  []byte
	)
	if err := row.Scan(&ident.ID, &ident.Email, &ident.EmailVerified, &ident.PasswordHash, &meta, &ident.CreatedAt); err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		var raw struct {
			Role        string `json:"role"`
			DisplayName string `json:"display_name"`
			CreatedBy   string `json:"created_by"`
		}
		if err := json.Unmarshal(meta, &raw); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		ident.Metadata = repository.IdentityMetadata{
			Role:        repository.ParseRole(raw.Role),
			DisplayName: raw.DisplayName,
			CreatedBy:   raw.CreatedBy,
		}
	}
	return &ident, nil
}

func (r *identityRepo) Create(ctx context.Context, in repository.CreateIdentityInput) (*repository.Identity, error) {
	meta, err := json.Marshal(in.Metadata)
	if err != nil {
		return nil, fmt.Errorf("pg: encode metadata: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO identities (email, email_verified, password_hash, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING `+identityColumns,
		in.Email, in.EmailVerified, in.PasswordHash, meta,
	)
	ident, err := scanIdentity(row)
	if err != nil {
		return nil, mapPgErr("create identity", err)
	}
	return ident, nil
}

func (r *identityRepo) GetByID(ctx context.Context, id string) (*repository.Identity, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	ident, err := scanIdentity(r.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = $1::uuid`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get identity: %w", err)
	}
	return ident, nil
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*repository.Identity, error) {
	ident, err := scanIdentity(r.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get identity by email: %w", err)
	}
	return ident, nil
}

func (r *identityRepo) Delete(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM identities WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("pg: delete identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
