// Package memory implementa los repositorios en memoria.
// Respeta las mismas constraints que el esquema PostgreSQL (email único,
// perfil 1:1, links únicos, borrado en cascada) para que los services
// se comporten igual en dev y en tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/store"
)

func init() {
	store.RegisterAdapter(adapter{})
}

type adapter struct{}

func (adapter) Name() string { return "memory" }

func (adapter) Connect(context.Context, store.AdapterConfig) (store.AdapterConnection, error) {
	return New(), nil
}

// Store guarda todas las tablas bajo un único lock.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	identities map[string]repository.Identity
	profiles   map[string]repository.Profile // por user_id
	links      []repository.CareLink
	samples    []repository.HealthSample
}

func New() *Store {
	return &Store{
		now:        func() time.Time { return time.Now().UTC() },
		identities: map[string]repository.Identity{},
		profiles:   map[string]repository.Profile{},
	}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Identities() repository.IdentityRepository { return identities{s} }

func (s *Store) Profiles() repository.ProfileRepository { return profiles{s} }

func (s *Store) CareLinks() repository.CareLinkRepository { return careLinks{s} }

func (s *Store) HealthSamples() repository.HealthRepository { return health{s} }

// Counts expone el tamaño de cada tabla (identities, profiles, links).
func (s *Store) Counts() (identities, profiles, links int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities), len(s.profiles), len(s.links)
}

// ---- identities ----

type identities struct{ s *Store }

func (r identities) Create(_ context.Context, in repository.CreateIdentityInput) (*repository.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, ident := range r.s.identities {
		if strings.EqualFold(ident.Email, in.Email) {
			return nil, repository.ErrConflict
		}
	}
	ident := repository.Identity{
		ID:            uuid.NewString(),
		Email:         in.Email,
		EmailVerified: in.EmailVerified,
		PasswordHash:  in.PasswordHash,
		Metadata:      in.Metadata,
		CreatedAt:     r.s.now(),
	}
	r.s.identities[ident.ID] = ident
	return &ident, nil
}

func (r identities) GetByID(_ context.Context, id string) (*repository.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ident, ok := r.s.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ident, nil
}

func (r identities) GetByEmail(_ context.Context, email string) (*repository.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ident := range r.s.identities {
		if strings.EqualFold(ident.Email, email) {
			ident := ident
			return &ident, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Delete borra en cascada perfil, links y muestras; created_by queda en NULL.
func (r identities) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.identities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.identities, id)
	delete(r.s.profiles, id)

	for uid, p := range r.s.profiles {
		if p.CreatedBy != nil && *p.CreatedBy == id {
			p.CreatedBy = nil
			r.s.profiles[uid] = p
		}
	}
	links := r.s.links[:0]
	for _, l := range r.s.links {
		if l.CaregiverID != id && l.PatientID != id {
			links = append(links, l)
		}
	}
	r.s.links = links

	samples := r.s.samples[:0]
	for _, sm := range r.s.samples {
		if sm.UserID != id {
			samples = append(samples, sm)
		}
	}
	r.s.samples = samples
	return nil
}

// ---- profiles ----

type profiles struct{ s *Store }

func (r profiles) GetByUserID(_ context.Context, userID string) (*repository.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r profiles) Insert(_ context.Context, in repository.InsertProfileInput) (*repository.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !in.Role.Valid() {
		return nil, repository.ErrInvalidInput
	}
	if _, ok := r.s.identities[in.UserID]; !ok {
		return nil, repository.ErrInvalidInput
	}
	if in.CreatedBy != nil {
		if _, ok := r.s.identities[*in.CreatedBy]; !ok {
			return nil, repository.ErrInvalidInput
		}
	}
	if _, dup := r.s.profiles[in.UserID]; dup {
		return nil, repository.ErrConflict
	}
	p := repository.Profile{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		DisplayName:      clone(in.DisplayName),
		Role:             in.Role,
		Phone:            clone(in.Phone),
		EmergencyContact: clone(in.EmergencyContact),
		CreatedBy:        clone(in.CreatedBy),
		CreatedAt:        r.s.now(),
	}
	r.s.profiles[in.UserID] = p
	return &p, nil
}

func (r profiles) ListCreatedBy(_ context.Context, caregiverID string) ([]repository.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []repository.Profile
	for _, p := range r.s.profiles {
		if p.Role == repository.RolePatient && p.CreatedBy != nil && *p.CreatedBy == caregiverID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- care links ----

type careLinks struct{ s *Store }

func (r careLinks) Insert(_ context.Context, caregiverID, patientID string) (*repository.CareLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, okC := r.s.identities[caregiverID]
	_, okP := r.s.identities[patientID]
	if !okC || !okP {
		return nil, repository.ErrInvalidInput
	}
	for _, l := range r.s.links {
		if l.CaregiverID == caregiverID && l.PatientID == patientID {
			return nil, repository.ErrConflict
		}
	}
	l := repository.CareLink{ID: uuid.NewString(), CaregiverID: caregiverID, PatientID: patientID, CreatedAt: r.s.now()}
	r.s.links = append(r.s.links, l)
	return &l, nil
}

func (r careLinks) Exists(_ context.Context, caregiverID, patientID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.links {
		if l.CaregiverID == caregiverID && l.PatientID == patientID {
			return true, nil
		}
	}
	return false, nil
}

func (r careLinks) ListPatients(_ context.Context, caregiverID string) ([]repository.LinkedPatient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []repository.LinkedPatient
	for _, l := range r.s.links {
		if l.CaregiverID != caregiverID {
			continue
		}
		p, ok := r.s.profiles[l.PatientID]
		if !ok {
			continue
		}
		out = append(out, repository.LinkedPatient{Link: l, Profile: p, Email: r.s.identities[l.PatientID].Email})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Link.CreatedAt.After(out[j].Link.CreatedAt) })
	return out, nil
}

// ---- health samples ----

type health struct{ s *Store }

func (r health) ListByUser(_ context.Context, userID string, f repository.HealthFilter) ([]repository.HealthSample, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	var out []repository.HealthSample
	for _, sm := range r.s.samples {
		if sm.UserID != userID || (!f.Since.IsZero() && sm.CreatedAt.Before(f.Since)) {
			continue
		}
		out = append(out, sm)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r health) Insert(_ context.Context, sm repository.HealthSample) (*repository.HealthSample, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.identities[sm.UserID]; !ok {
		return nil, repository.ErrInvalidInput
	}
	sm.ID = uuid.NewString()
	if sm.CreatedAt.IsZero() {
		sm.CreatedAt = r.s.now()
	}
	r.s.samples = append(r.s.samples, sm)
	return &sm, nil
}

func clone(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
