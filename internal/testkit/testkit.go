// Package testkit arma un entorno en memoria para tests de services y controllers:
// store, proveedor de identidades y usuarios con sesión.
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/jwt"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
	"github.com/dropDatabas3/elderwatch/internal/store/memory"
)

// FastParams hace que argon2id sea barato en tests.
var FastParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

const Secret = "test-secret-0123456789abcdef0123"

// Env es un entorno completo en memoria.
type Env struct {
	Store    *memory.Store
	Issuer   *jwt.Issuer
	Provider *identity.Provider
}

// User es una identidad con perfil y token de sesión válido.
type User struct {
	Identity *repository.Identity
	Profile  *repository.Profile
	Token    string
}

func New(t testing.TB) *Env {
	t.Helper()
	st := memory.New()
	iss, err := jwt.NewIssuer("elderwatch", Secret, time.Hour)
	require.NoError(t, err)
	return &Env{Store: st, Issuer: iss, Provider: identity.NewProvider(st.Identities(), iss, FastParams)}
}

// Caregiver crea un cuidador con perfil.
func (e *Env) Caregiver(t testing.TB, email string) *User {
	return e.user(t, email, repository.RoleCaregiver, nil)
}

// Patient crea un paciente con perfil creado por createdBy (puede ser "").
func (e *Env) Patient(t testing.TB, email, createdBy string) *User {
	var cb *string
	if createdBy != "" {
		cb = &createdBy
	}
	return e.user(t, email, repository.RolePatient, cb)
}

// NoProfile crea una identidad sin perfil.
func (e *Env) NoProfile(t testing.TB, email string) *User {
	t.Helper()
	ident, err := e.Provider.CreateIdentity(context.Background(), identity.CreateInput{
		Email: email, Password: "Passw0rd!", EmailConfirmed: true,
	})
	require.NoError(t, err)
	sess, err := e.Provider.IssueSession(ident)
	require.NoError(t, err)
	return &User{Identity: ident, Token: sess.AccessToken}
}

func (e *Env) user(t testing.TB, email string, role repository.Role, createdBy *string) *User {
	t.Helper()
	ctx := context.Background()
	ident, err := e.Provider.CreateIdentity(ctx, identity.CreateInput{
		Email:          email,
		Password:       "Passw0rd!",
		EmailConfirmed: true,
		Metadata:       repository.IdentityMetadata{Role: role, DisplayName: email},
	})
	require.NoError(t, err)
	name := email
	prof, err := e.Store.Profiles().Insert(ctx, repository.InsertProfileInput{
		UserID:      ident.ID,
		DisplayName: &name,
		Role:        role,
		CreatedBy:   createdBy,
	})
	require.NoError(t, err)
	sess, err := e.Provider.IssueSession(ident)
	require.NoError(t, err)
	return &User{Identity: ident, Profile: prof, Token: sess.AccessToken}
}

// Link vincula cuidador y paciente.
func (e *Env) Link(t testing.TB, caregiverID, patientID string) {
	t.Helper()
	_, err := e.Store.CareLinks().Insert(context.Background(), caregiverID, patientID)
	require.NoError(t, err)
}

// Sample inserta una muestra de salud.
func (e *Env) Sample(t testing.TB, userID string, heartRate int, fall bool, at time.Time) {
	t.Helper()
	hr := heartRate
	_, err := e.Store.HealthSamples().Insert(context.Background(), repository.HealthSample{
		UserID: userID, HeartRate: &hr, FallDetected: fall, CreatedAt: at,
	})
	require.NoError(t, err)
}
