package pg

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/store"
	migrations "github.com/dropDatabas3/elderwatch/migrations/postgres"
)

// Requiere una base real: ELDERWATCH_TEST_DSN=postgres://... go test ./internal/store/pg/
func newTestConnection(t *testing.T) *Connection {
	t.Helper()
	dsn := strings.TrimSpace(os.Getenv("ELDERWATCH_TEST_DSN"))
	if dsn == "" {
		t.Skip("ELDERWATCH_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	conn := NewConnection(pool)
	_, err = conn.Migrate(ctx, store.NewMigrator(migrations.PostgresFS, migrations.PostgresDir))
	require.NoError(t, err)
	return conn
}

func createIdentity(t *testing.T, conn *Connection, role repository.Role) *repository.Identity {
	t.Helper()
	ident, err := conn.Identities().Create(context.Background(), repository.CreateIdentityInput{
		Email:        "it-" + uuid.NewString() + "@example.com",
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		Metadata:     repository.IdentityMetadata{Role: role},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Identities().Delete(context.Background(), ident.ID) })
	return ident
}

func TestIntegration_IdentityLookups(t *testing.T) {
	conn := newTestConnection(t)
	ctx := context.Background()
	ident := createIdentity(t, conn, repository.RoleCaregiver)

	got, err := conn.Identities().GetByID(ctx, ident.ID)
	require.NoError(t, err)
	assert.Equal(t, ident.Email, got.Email)
	assert.Equal(t, repository.RoleCaregiver, got.Metadata.Role)

	got, err = conn.Identities().GetByID(ctx, strings.ToUpper(ident.ID))
	require.NoError(t, err)
	assert.Equal(t, ident.ID, got.ID)

	got, err = conn.Identities().GetByEmail(ctx, strings.ToUpper(ident.Email))
	require.NoError(t, err)
	assert.Equal(t, ident.ID, got.ID)

	_, err = conn.Identities().GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = conn.Identities().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, conn.Identities().Delete(ctx, "not-a-uuid"), repository.ErrNotFound)

	_, err = conn.Identities().Create(ctx, repository.CreateIdentityInput{
		Email: strings.ToUpper(ident.Email), PasswordHash: "x",
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestIntegration_ProvisioningRowsAndCascade(t *testing.T) {
	conn := newTestConnection(t)
	ctx := context.Background()

	cg := createIdentity(t, conn, repository.RoleCaregiver)
	pt := createIdentity(t, conn, repository.RolePatient)
	name, phone, blank := "Maria Santos", "+1-555-0100", ""

	_, err := conn.Profiles().Insert(ctx, repository.InsertProfileInput{UserID: cg.ID, Role: repository.RoleCaregiver})
	require.NoError(t, err)
	prof, err := conn.Profiles().Insert(ctx, repository.InsertProfileInput{
		UserID:           pt.ID,
		DisplayName:      &name,
		Role:             repository.RolePatient,
		Phone:            &phone,
		EmergencyContact: &blank,
		CreatedBy:        &cg.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, prof.EmergencyContact)
	require.NotNil(t, prof.CreatedBy)
	assert.Equal(t, cg.ID, *prof.CreatedBy)

	_, err = conn.Profiles().Insert(ctx, repository.InsertProfileInput{UserID: pt.ID, Role: repository.RolePatient})
	assert.ErrorIs(t, err, repository.ErrConflict)

	created, err := conn.Profiles().ListCreatedBy(ctx, cg.ID)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, pt.ID, created[0].UserID)

	_, err = conn.CareLinks().Insert(ctx, cg.ID, pt.ID)
	require.NoError(t, err)
	_, err = conn.CareLinks().Insert(ctx, cg.ID, pt.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)

	ok, err := conn.CareLinks().Exists(ctx, cg.ID, pt.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = conn.CareLinks().Insert(ctx, "bad", pt.ID)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	ok, err = conn.CareLinks().Exists(ctx, "bad", pt.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	linked, err := conn.CareLinks().ListPatients(ctx, cg.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, pt.Email, linked[0].Email)
	assert.Equal(t, repository.RolePatient, linked[0].Profile.Role)

	hr := 95
	_, err = conn.HealthSamples().Insert(ctx, repository.HealthSample{UserID: pt.ID, HeartRate: &hr})
	require.NoError(t, err)
	samples, err := conn.HealthSamples().ListByUser(ctx, pt.ID, repository.HealthFilter{Since: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 95, *samples[0].HeartRate)

	samples, err = conn.HealthSamples().ListByUser(ctx, "not-a-uuid", repository.HealthFilter{})
	require.NoError(t, err)
	assert.Empty(t, samples)

	// Borrar la identidad (compensación) no deja perfil, links ni muestras.
	require.NoError(t, conn.Identities().Delete(ctx, pt.ID))

	_, err = conn.Profiles().GetByUserID(ctx, pt.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	ok, err = conn.CareLinks().Exists(ctx, cg.ID, pt.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	samples, err = conn.HealthSamples().ListByUser(ctx, pt.ID, repository.HealthFilter{})
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestIntegration_CreatedBySetNullOnCaregiverDelete(t *testing.T) {
	conn := newTestConnection(t)
	ctx := context.Background()

	cg := createIdentity(t, conn, repository.RoleCaregiver)
	pt := createIdentity(t, conn, repository.RolePatient)
	_, err := conn.Profiles().Insert(ctx, repository.InsertProfileInput{
		UserID: pt.ID, Role: repository.RolePatient, CreatedBy: &cg.ID,
	})
	require.NoError(t, err)

	require.NoError(t, conn.Identities().Delete(ctx, cg.ID))

	prof, err := conn.Profiles().GetByUserID(ctx, pt.ID)
	require.NoError(t, err)
	assert.Nil(t, prof.CreatedBy)
}
