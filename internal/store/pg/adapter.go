// Package pg implementa el adapter PostgreSQL sobre pgxpool.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/store"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextRepr     = "22P02"
)

// mapPgErr traduce violaciones de constraints a errores de dominio.
func mapPgErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("pg: %s: %w", op, repository.ErrConflict)
		case foreignKeyViolation, invalidTextRepr:
			return fmt.Errorf("pg: %s: %w", op, repository.ErrInvalidInput)
		}
	}
	return fmt.Errorf("pg: %s: %w", op, err)
}

type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}
	poolCfg.MaxConns = 10
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MinConns = 2
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}
	return NewConnection(pool), nil
}

// Connection es una conexión activa a PostgreSQL.
type Connection struct {
	pool *pgxpool.Pool
}

// NewConnection envuelve un pool existente (útil para cmd/seed).
func NewConnection(pool *pgxpool.Pool) *Connection {
	return &Connection{pool: pool}
}

func (c *Connection) Name() string { return "postgres" }

func (c *Connection) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

// Pool expone el pool para el collector de métricas.
func (c *Connection) Pool() *pgxpool.Pool { return c.pool }

func (c *Connection) Close() error {
	c.pool.Close()
	return nil
}

func (c *Connection) Identities() repository.IdentityRepository { return &identityRepo{pool: c.pool} }

func (c *Connection) Profiles() repository.ProfileRepository { return &profileRepo{pool: c.pool} }

func (c *Connection) CareLinks() repository.CareLinkRepository { return &careLinkRepo{pool: c.pool} }

func (c *Connection) HealthSamples() repository.HealthRepository { return &healthRepo{pool: c.pool} }

// Migrate implementa store.MigratableConnection.
func (c *Connection) Migrate(ctx context.Context, m *store.Migrator) (*store.MigrationResult, error) {
	return m.Run(ctx, &migrationTarget{pool: c.pool})
}

// canonicalID normaliza un id a su forma uuid canónica. Un id malformado
// no puede existir en una columna UUID: los callers lo tratan como "no encontrado".
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// canonicalIDs normaliza en el lugar los ids obligatorios de un insert.
func canonicalIDs(op string, ids ...*string) error {
	for _, id := range ids {
		c, ok := canonicalID(*id)
		if !ok {
			return fmt.Errorf("pg: %s: %w: malformed id %q", op, repository.ErrInvalidInput, *id)
		}
		*id = c
	}
	return nil
}

// nullIfEmpty devuelve nil para strings vacíos (columnas opcionales).
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
