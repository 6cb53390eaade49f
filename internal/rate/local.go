package rate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// LocalLimiter es un token bucket por key: Max requests por Window, con ráfaga = Max.
// Las keys sin actividad por 3 ventanas se descartan.
type LocalLimiter struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	r       rate.Limit
	burst   int
	window  time.Duration
	now     func() time.Time
}

func NewLocalLimiter(max int, window time.Duration) *LocalLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LocalLimiter{
		entries: make(map[string]*localEntry),
		r:       rate.Every(window / time.Duration(max)),
		burst:   max,
		window:  window,
		now:     time.Now,
	}
}

func (l *LocalLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[key]; ok {
		e.seen = now
		return e.lim
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.entries[key] = &localEntry{lim: lim, seen: now}
	return lim
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()
	lim := l.get(key, now)

	if lim.AllowN(now, 1) {
		return Result{Allowed: true, Remaining: int64(lim.TokensAt(now))}, nil
	}
	r := lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	if delay <= 0 {
		delay = time.Second
	}
	return Result{Allowed: false, RetryAfter: delay}, nil
}

// Sweep descarta keys inactivas. Retorna cuántas quedaron.
func (l *LocalLimiter) Sweep() int {
	cutoff := l.now().Add(-3 * l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, e := range l.entries {
		if e.seen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
	return len(l.entries)
}

// RunSweeper llama a Sweep cada ventana hasta que ctx se cancela.
func (l *LocalLimiter) RunSweeper(ctx context.Context) {
	t := time.NewTicker(l.window)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep()
		}
	}
}
