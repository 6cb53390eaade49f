package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
)

type healthRepo struct {
	pool *pgxpool.Pool
}

const (
	defaultSampleLimit = 200
	maxSampleLimit     = 1000
)

func (r *healthRepo) ListByUser(ctx context.Context, userID string, f repository.HealthFilter) ([]repository.HealthSample, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultSampleLimit
	}
	if limit > maxSampleLimit {
		limit = maxSampleLimit
	}
	userID, ok := canonicalID(userID)
	if !ok {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id::text, heart_rate, steps, sleep_duration, fall_detected, created_at
		FROM health_samples
		WHERE user_id = $1::uuid AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at DESC
		LIMIT $3`, userID, sinceArg(f), limit)
	if err != nil {
		return nil, fmt.Errorf("pg: list health samples: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.HealthSample, error) {
		var s repository.HealthSample
		err := row.Scan(&s.ID, &s.UserID, &s.HeartRate, &s.Steps, &s.SleepDuration, &s.FallDetected, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("pg: scan health samples: %w", err)
	}
	return out, nil
}

func sinceArg(f repository.HealthFilter) any {
	if f.Since.IsZero() {
		return nil
	}
	return f.Since
}

func (r *healthRepo) Insert(ctx context.Context, s repository.HealthSample) (*repository.HealthSample, error) {
	if err := canonicalIDs("insert health sample", &s.UserID); err != nil {
		return nil, err
	}
	var createdAt any
	if !s.CreatedAt.IsZero() {
		createdAt = s.CreatedAt
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO health_samples (user_id, heart_rate, steps, sleep_duration, fall_detected, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, COALESCE($6::timestamptz, NOW()))
		RETURNING id::text, created_at`,
		s.UserID, s.HeartRate, s.Steps, s.SleepDuration, s.FallDetected, createdAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, mapPgErr("insert health sample", err)
	}
	return &s, nil
}
