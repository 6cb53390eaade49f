package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/store"
)

func strp(s string) *string { return &s }

func TestConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()

	cg, err := s.Identities().Create(ctx, repository.CreateIdentityInput{Email: "cg@example.com"})
	require.NoError(t, err)
	_, err = s.Identities().Create(ctx, repository.CreateIdentityInput{Email: "CG@example.com"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	pt, err := s.Identities().Create(ctx, repository.CreateIdentityInput{Email: "pt@example.com"})
	require.NoError(t, err)

	_, err = s.Profiles().Insert(ctx, repository.InsertProfileInput{UserID: "missing", Role: repository.RolePatient})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	_, err = s.Profiles().Insert(ctx, repository.InsertProfileInput{UserID: pt.ID, Role: repository.RoleUnknown})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = s.Profiles().Insert(ctx, repository.InsertProfileInput{UserID: pt.ID, Role: repository.RolePatient, CreatedBy: strp(cg.ID)})
	require.NoError(t, err)
	_, err = s.Profiles().Insert(ctx, repository.InsertProfileInput{UserID: pt.ID, Role: repository.RolePatient})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.CareLinks().Insert(ctx, cg.ID, pt.ID)
	require.NoError(t, err)
	_, err = s.CareLinks().Insert(ctx, cg.ID, pt.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)

	lps, err := s.CareLinks().ListPatients(ctx, cg.ID)
	require.NoError(t, err)
	require.Len(t, lps, 1)
	assert.Equal(t, "pt@example.com", lps[0].Email)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := New()

	cg, _ := s.Identities().Create(ctx, repository.CreateIdentityInput{Email: "cg@example.com"})
	pt, _ := s.Identities().Create(ctx, repository.CreateIdentityInput{Email: "pt@example.com"})
	_, err := s.Profiles().Insert(ctx, repository.InsertProfileInput{UserID: pt.ID, Role: repository.RolePatient, CreatedBy: strp(cg.ID)})
	require.NoError(t, err)
	_, err = s.CareLinks().Insert(ctx, cg.ID, pt.ID)
	require.NoError(t, err)
	_, err = s.HealthSamples().Insert(ctx, repository.HealthSample{UserID: pt.ID})
	require.NoError(t, err)

	require.NoError(t, s.Identities().Delete(ctx, pt.ID))
	assert.ErrorIs(t, s.Identities().Delete(ctx, pt.ID), repository.ErrNotFound)

	ids, profs, links := s.Counts()
	assert.Equal(t, 1, ids)
	assert.Equal(t, 0, profs)
	assert.Equal(t, 0, links)

	samples, err := s.HealthSamples().ListByUser(ctx, pt.ID, repository.HealthFilter{})
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestHealthOrderingAndWindow(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, _ := s.Identities().Create(ctx, repository.CreateIdentityInput{Email: "u@example.com"})

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.HealthSamples().Insert(ctx, repository.HealthSample{UserID: u.ID, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	out, err := s.HealthSamples().ListByUser(ctx, u.ID, repository.HealthFilter{Since: base.Add(2 * time.Hour), Limit: 2})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, base.Add(4*time.Hour), out[0].CreatedAt)
	assert.Equal(t, base.Add(3*time.Hour), out[1].CreatedAt)
}

func TestOpenAdapter(t *testing.T) {
	conn, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", conn.Name())
	require.NoError(t, conn.Ping(context.Background()))

	_, err = store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "nope"})
	assert.Error(t, err)
}
