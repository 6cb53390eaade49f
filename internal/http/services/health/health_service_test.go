package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ok(context.Context) error { return nil }

func TestCheck(t *testing.T) {
	ctx := context.Background()

	r := NewHealthService(Deps{StoreCheck: ok, CacheCheck: ok, Version: "1.0.0"}).Check(ctx)
	assert.Equal(t, "ready", r.Status)
	assert.Equal(t, "1.0.0", r.Version)
	assert.Equal(t, "ok", r.Components["store"].Status)

	r = NewHealthService(Deps{StoreCheck: ok, CacheCheck: func(context.Context) error { return errors.New("redis down") }}).Check(ctx)
	assert.Equal(t, "degraded", r.Status)
	assert.Equal(t, "redis down", r.Components["cache"].Message)

	r = NewHealthService(Deps{StoreCheck: func(context.Context) error { return errors.New("pg down") }}).Check(ctx)
	assert.Equal(t, "unavailable", r.Status)
	_, hasCache := r.Components["cache"]
	assert.False(t, hasCache)

	r = NewHealthService(Deps{}).Check(ctx)
	assert.Equal(t, "unavailable", r.Status)
}
