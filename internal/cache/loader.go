package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// Loader cachea valores JSON y deduplica cargas concurrentes de la misma key.
// Un error del backend de cache nunca falla la lectura: se carga de la fuente.
type Loader[T any] struct {
	c   Client
	ttl time.Duration
	sf  singleflight.Group
}

func NewLoader[T any](c Client, ttl time.Duration) *Loader[T] {
	return &Loader[T]{c: c, ttl: ttl}
}

// Get retorna el valor cacheado o lo carga con load. hit indica si vino del cache.
func (l *Loader[T]) Get(ctx context.Context, key string, load func(context.Context) (T, error)) (v T, hit bool, err error) {
	if b, gerr := l.c.Get(ctx, key); gerr == nil {
		if jerr := json.Unmarshal(b, &v); jerr == nil {
			return v, true, nil
		}
	} else if !IsNotFound(gerr) {
		logger.From(ctx).Warn("cache get failed", logger.Component("cache"), logger.String("key", key), logger.Err(gerr))
	}

	res, err, _ := l.sf.Do(key, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return val, err
		}
		if b, merr := json.Marshal(val); merr == nil {
			if serr := l.c.Set(ctx, key, b, l.ttl); serr != nil {
				logger.From(ctx).Warn("cache set failed", logger.Component("cache"), logger.String("key", key), logger.Err(serr))
			}
		}
		return val, nil
	})
	if err != nil {
		return v, false, err
	}
	return res.(T), false, nil
}

// Invalidate borra la key; errores sólo se loguean.
func (l *Loader[T]) Invalidate(ctx context.Context, key string) {
	if err := l.c.Delete(ctx, key); err != nil {
		logger.From(ctx).Warn("cache invalidate failed", logger.Component("cache"), logger.String("key", key), logger.Err(err))
	}
}
