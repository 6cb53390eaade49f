// Package saga coordina escrituras en varios stores sin transacción común:
// cada paso exitoso registra su deshacer y, ante una falla posterior,
// Compensate los ejecuta en orden inverso.
//
//	sg := saga.New("provision_patient")
//	ident, err := saga.Do(ctx, sg, "create_identity", createFn, deleteFn)
//	if err != nil { return err }
//	if _, err := saga.Do(ctx, sg, "insert_profile", insertFn, nil); err != nil {
//	    _ = sg.Compensate(ctx)
//	    return err
//	}
package saga

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// DefaultCompensationTimeout acota la compensación completa.
const DefaultCompensationTimeout = 10 * time.Second

// Observer recibe el resultado de cada deshacer (nil = ok).
type Observer func(saga, step string, err error)

type undoStep struct {
	step string
	fn   func(context.Context) error
}

// Saga acumula los deshacer de los pasos ejecutados.
type Saga struct {
	name     string
	timeout  time.Duration
	observer Observer

	mu          sync.Mutex
	undos       []undoStep
	compensated bool
}

type Option func(*Saga)

// WithTimeout cambia el límite de tiempo de la compensación.
func WithTimeout(d time.Duration) Option {
	return func(s *Saga) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithObserver registra un callback por cada deshacer (métricas).
func WithObserver(o Observer) Option {
	return func(s *Saga) { s.observer = o }
}

func New(name string, opts ...Option) *Saga {
	s := &Saga{name: name, timeout: DefaultCompensationTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Saga) Name() string { return s.name }

// Do ejecuta fn. Si tiene éxito y undo no es nil, registra undo con el resultado.
// Si fn falla no se registra nada: el paso no dejó efectos.
func Do[T any](ctx context.Context, s *Saga, step string, fn func(context.Context) (T, error), undo func(context.Context, T) error) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, &StepError{Saga: s.name, Step: step, Err: err}
	}
	if undo != nil {
		s.mu.Lock()
		s.undos = append(s.undos, undoStep{step: step, fn: func(c context.Context) error { return undo(c, v) }})
		s.mu.Unlock()
	}
	return v, nil
}

// Pending retorna cuántos deshacer están registrados.
func (s *Saga) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undos)
}

// Compensate ejecuta los deshacer en orden inverso sobre un contexto que no
// hereda la cancelación del request. Sigue aunque un paso falle y retorna
// un *CompensationError con todas las fallas. Una segunda llamada no hace nada.
func (s *Saga) Compensate(ctx context.Context) error {
	s.mu.Lock()
	if s.compensated {
		s.mu.Unlock()
		return nil
	}
	s.compensated = true
	undos := s.undos
	s.undos = nil
	s.mu.Unlock()

	if len(undos) == 0 {
		return nil
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	log := logger.From(ctx).With(logger.Component("saga"), logger.String("saga", s.name))

	var failed []error
	for i := len(undos) - 1; i >= 0; i-- {
		u := undos[i]
		err := u.fn(cctx)
		if s.observer != nil {
			s.observer(s.name, u.step, err)
		}
		if err != nil {
			log.Error("compensation step failed", logger.Step(u.step), logger.Err(err))
			failed = append(failed, fmt.Errorf("%s: %w", u.step, err))
			continue
		}
		log.Info("compensation step done", logger.Step(u.step))
	}
	if len(failed) > 0 {
		return &CompensationError{Saga: s.name, Err: errors.Join(failed...)}
	}
	return nil
}

// StepError envuelve la falla de un paso.
type StepError struct {
	Saga string
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("saga %s: step %s: %v", e.Saga, e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// CompensationError indica que al menos un deshacer falló; puede quedar estado huérfano.
type CompensationError struct {
	Saga string
	Err  error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("saga %s: compensation failed: %v", e.Saga, e.Err)
}

func (e *CompensationError) Unwrap() error { return e.Err }
