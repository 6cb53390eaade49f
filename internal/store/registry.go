// Package store provee el registry de adaptadores de almacenamiento.
//
// Cada adapter se registra en init(); el binario lo habilita con un import en blanco:
//
//	import _ "github.com/dropDatabas3/elderwatch/internal/store/pg"
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
)

// Adapter crea conexiones a un almacenamiento concreto.
type Adapter interface {
	// Name retorna el nombre del adapter ("postgres", "memory").
	Name() string

	Connect(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error)
}

// AdapterConnection es una conexión activa que expone los repositorios.
type AdapterConnection interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	Identities() repository.IdentityRepository
	Profiles() repository.ProfileRepository
	CareLinks() repository.CareLinkRepository
	HealthSamples() repository.HealthRepository
}

// MigratableConnection es opcional: conexiones SQL que aplican migraciones.
type MigratableConnection interface {
	Migrate(ctx context.Context, m *Migrator) (*MigrationResult, error)
}

// AdapterConfig configuración para conectar.
type AdapterConfig struct {
	Name         string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter. Llamar en init(); un nombre repetido es panic.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("adapter: %q already registered", name))
	}
	adapters[name] = a
}

func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres registrados, ordenados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenAdapter abre una conexión con el adapter indicado en cfg.Name.
func OpenAdapter(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("adapter: %q not registered (available: %v)", cfg.Name, ListAdapters())
	}
	return a.Connect(ctx, cfg)
}
