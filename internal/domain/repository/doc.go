// Package repository define los contratos de persistencia del dominio Elder Watch.
//
// Las implementaciones viven en internal/store/pg (PostgreSQL) e
// internal/store/memory (procesos de desarrollo y tests).
//
//	services ──► repository (interfaces) ──► store/pg | store/memory
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - "no existe" se reporta con ErrNotFound, duplicados con ErrConflict
//   - Campos opcionales son punteros; nil significa ausente
package repository
