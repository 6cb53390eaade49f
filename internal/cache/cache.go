// Package cache provee un cache key/value con dos backends:
// memory (go-cache, in-process) y redis (compartido entre réplicas).
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client define las operaciones de cache.
type Client interface {
	// Get retorna ErrNotFound si la key no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda un valor; ttl 0 usa el TTL por defecto del backend.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// ErrNotFound indica que la key no existe.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Config configuración para crear un cliente.
type Config struct {
	Driver     string // "memory" | "redis"
	DefaultTTL time.Duration
	Prefix     string
	// Redis es el cliente compartido; requerido si Driver == "redis".
	Redis *redis.Client
}

// New crea el cliente según Driver.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemory(cfg.DefaultTTL), nil
	case "redis":
		if cfg.Redis == nil {
			return nil, errors.New("cache: redis driver requires a client")
		}
		return NewRedis(cfg.Redis, cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
