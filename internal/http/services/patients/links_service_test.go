package patients_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svc "github.com/dropDatabas3/elderwatch/internal/http/services/patients"
)

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.services(svc.Deps{})

	a, err := s.Provision.Provision(ctx, f.caregiver.Token, svc.ProvisionRequest{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = s.Provision.Provision(ctx, f.caregiver.Token, svc.ProvisionRequest{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	other := f.env.Caregiver(t, "otro@example.com")

	list, err := s.Links.List(ctx, f.caregiver.Identity.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].Profile.UserID, list[1].Profile.UserID}
	assert.Contains(t, ids, a.ID)

	empty, err := s.Links.List(ctx, other.Identity.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReconcileLinks_NothingToRepair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.services(svc.Deps{})

	_, err := s.Provision.Provision(ctx, f.caregiver.Token, svc.ProvisionRequest{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	calls := len(f.overview.calls)

	res, err := s.Links.ReconcileLinks(ctx, f.caregiver.Identity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Checked)
	assert.Empty(t, res.Repaired)
	assert.Empty(t, res.Failed)
	assert.Len(t, f.overview.calls, calls)
}
