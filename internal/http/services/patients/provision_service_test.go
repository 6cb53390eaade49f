package patients_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	svc "github.com/dropDatabas3/elderwatch/internal/http/services/patients"
	"github.com/dropDatabas3/elderwatch/internal/testkit"
)

// ─── fakes ───

type faultProfiles struct {
	repository.ProfileRepository
	insertErr error
}

func (f faultProfiles) Insert(ctx context.Context, in repository.InsertProfileInput) (*repository.Profile, error) {
	if f.insertErr != nil && in.Role == repository.RolePatient {
		return nil, f.insertErr
	}
	return f.ProfileRepository.Insert(ctx, in)
}

type faultLinks struct {
	repository.CareLinkRepository
	insertErr error
}

func (f faultLinks) Insert(ctx context.Context, caregiverID, patientID string) (*repository.CareLink, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return f.CareLinkRepository.Insert(ctx, caregiverID, patientID)
}

type failingDelete struct {
	svc.IdentityProvider
}

func (failingDelete) DeleteIdentity(context.Context, string) error { return errors.New("delete refused") }

type spyOverview struct {
	mu    sync.Mutex
	calls []string
}

func (s *spyOverview) InvalidateOverview(_ context.Context, caregiverID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, caregiverID)
}

func ptr(s string) *string { return &s }

type fixture struct {
	env       *testkit.Env
	overview  *spyOverview
	caregiver *testkit.User
}

func newFixture(t *testing.T) *fixture {
	env := testkit.New(t)
	return &fixture{env: env, overview: &spyOverview{}, caregiver: env.Caregiver(t, "carla@example.com")}
}

func (f *fixture) services(d svc.Deps) svc.Services {
	if d.Identity == nil {
		d.Identity = f.env.Provider
	}
	if d.Profiles == nil {
		d.Profiles = f.env.Store.Profiles()
	}
	if d.Links == nil {
		d.Links = f.env.Store.CareLinks()
	}
	d.Overview = f.overview
	return svc.NewServices(d)
}

var tempPasswordRe = regexp.MustCompile(`^[0-9a-z]{12}A1!$`)

func mariaSantos() svc.ProvisionRequest {
	return svc.ProvisionRequest{
		Name:             "Maria Santos",
		Email:            "Maria.Santos@Example.com",
		Phone:            ptr("+1 555 0100"),
		EmergencyContact: ptr("John Santos"),
	}
}

func TestProvision_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.services(svc.Deps{})

	out, err := s.Provision.Provision(ctx, f.caregiver.Token, mariaSantos())
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "maria.santos@example.com", out.Email)
	assert.Equal(t, "Maria Santos", out.Name)
	require.NotNil(t, out.Phone)
	assert.Equal(t, "+1 555 0100", *out.Phone)
	require.NotNil(t, out.EmergencyContact)
	assert.Equal(t, "John Santos", *out.EmergencyContact)

	assert.Regexp(t, tempPasswordRe, out.TemporaryPassword)
	assert.GreaterOrEqual(t, len(out.TemporaryPassword), 12)
	assert.True(t, strings.ContainsAny(out.TemporaryPassword, "0123456789"))
	assert.True(t, strings.Contains(out.TemporaryPassword, "!"))

	ids, profs, links := f.env.Store.Counts()
	assert.Equal(t, 2, ids)
	assert.Equal(t, 2, profs)
	assert.Equal(t, 1, links)

	prof, err := f.env.Store.Profiles().GetByUserID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.RolePatient, prof.Role)
	require.NotNil(t, prof.CreatedBy)
	assert.Equal(t, f.caregiver.Identity.ID, *prof.CreatedBy)

	ident, err := f.env.Store.Identities().GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.True(t, ident.EmailVerified)
	assert.Equal(t, repository.RolePatient, ident.Metadata.Role)
	assert.Equal(t, f.caregiver.Identity.ID, ident.Metadata.CreatedBy)
	assert.NotContains(t, ident.PasswordHash, out.TemporaryPassword)

	// el paciente puede entrar con el password temporal
	_, err = f.env.Provider.SignIn(ctx, out.Email, out.TemporaryPassword)
	require.NoError(t, err)

	assert.Equal(t, []string{f.caregiver.Identity.ID}, f.overview.calls)
}

func TestProvision_OptionalFieldsBlank(t *testing.T) {
	f := newFixture(t)
	s := f.services(svc.Deps{})

	out, err := s.Provision.Provision(context.Background(), f.caregiver.Token, svc.ProvisionRequest{
		Name: " Ana ", Email: "ana@example.com", Phone: ptr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", out.Name)
	assert.Nil(t, out.Phone)
	assert.Nil(t, out.EmergencyContact)
}

func TestProvision_OptionalFieldsTrimmed(t *testing.T) {
	f := newFixture(t)
	s := f.services(svc.Deps{})

	out, err := s.Provision.Provision(context.Background(), f.caregiver.Token, svc.ProvisionRequest{
		Name: "Luis", Email: "luis@example.com",
		Phone: ptr("  +1-555-0100 "), EmergencyContact: ptr("\tHija: Carla\n"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Phone)
	require.NotNil(t, out.EmergencyContact)
	assert.Equal(t, "+1-555-0100", *out.Phone)
	assert.Equal(t, "Hija: Carla", *out.EmergencyContact)
}

func TestProvision_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	s := f.services(svc.Deps{})

	_, err := s.Provision.Provision(context.Background(), "", mariaSantos())
	var e *svc.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, svc.KindUnauthenticated, e.Kind)
	assert.Equal(t, "No authorization header", e.Message)

	_, err = s.Provision.Provision(context.Background(), "not-a-jwt", mariaSantos())
	require.ErrorAs(t, err, &e)
	assert.Equal(t, svc.KindUnauthenticated, e.Kind)
	assert.Equal(t, "Invalid authentication", e.Message)

	ids, profs, links := f.env.Store.Counts()
	assert.Equal(t, []int{1, 1, 0}, []int{ids, profs, links})
}

func TestProvision_ForbiddenWithoutWrites(t *testing.T) {
	f := newFixture(t)
	pt := f.env.Patient(t, "pablo@example.com", f.caregiver.Identity.ID)
	bare := f.env.NoProfile(t, "nadie@example.com")
	s := f.services(svc.Deps{})

	before := [3]int{}
	before[0], before[1], before[2] = f.env.Store.Counts()

	for _, tok := range []string{pt.Token, bare.Token} {
		_, err := s.Provision.Provision(context.Background(), tok, mariaSantos())
		var e *svc.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, svc.KindForbidden, e.Kind)
		assert.Equal(t, "Only caregivers can create patient accounts", e.Message)
	}

	after := [3]int{}
	after[0], after[1], after[2] = f.env.Store.Counts()
	assert.Equal(t, before, after)
	assert.Empty(t, f.overview.calls)
}

func TestProvision_InvalidInput(t *testing.T) {
	f := newFixture(t)
	s := f.services(svc.Deps{})

	cases := []struct {
		req svc.ProvisionRequest
		msg string
	}{
		{svc.ProvisionRequest{Email: "x@example.com"}, "Name and email are required"},
		{svc.ProvisionRequest{Name: "X", Email: "   "}, "Name and email are required"},
		{svc.ProvisionRequest{}, "Name and email are required"},
		{svc.ProvisionRequest{Name: "X", Email: "not-an-email"}, "Invalid email address"},
	}
	for _, c := range cases {
		_, err := s.Provision.Provision(context.Background(), f.caregiver.Token, c.req)
		var e *svc.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, svc.KindInvalidInput, e.Kind)
		assert.Equal(t, c.msg, e.Message)
	}
	ids, _, _ := f.env.Store.Counts()
	assert.Equal(t, 1, ids)
}

func TestProvision_ProfileFailureDeletesIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.services(svc.Deps{
		Profiles: faultProfiles{ProfileRepository: f.env.Store.Profiles(), insertErr: errors.New("profiles unavailable")},
	})

	_, err := s.Provision.Provision(ctx, f.caregiver.Token, mariaSantos())
	var e *svc.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, svc.KindProvisioningFailed, e.Kind)
	assert.Equal(t, "Failed to create profile: profiles unavailable", e.Message)

	_, err = f.env.Store.Identities().GetByEmail(ctx, "maria.santos@example.com")
	assert.True(t, repository.IsNotFound(err))
	ids, profs, links := f.env.Store.Counts()
	assert.Equal(t, []int{1, 1, 0}, []int{ids, profs, links})
	assert.Empty(t, f.overview.calls)
}

func TestProvision_CompensationFailureStillReportsProvisioningFailed(t *testing.T) {
	f := newFixture(t)
	s := f.services(svc.Deps{
		Identity: failingDelete{IdentityProvider: f.env.Provider},
		Profiles: faultProfiles{ProfileRepository: f.env.Store.Profiles(), insertErr: errors.New("boom")},
	})

	_, err := s.Provision.Provision(context.Background(), f.caregiver.Token, mariaSantos())
	assert.Equal(t, svc.KindProvisioningFailed, svc.KindOf(err))

	// la identidad queda huérfana y se reporta en logs y métricas
	ids, _, _ := f.env.Store.Counts()
	assert.Equal(t, 2, ids)
}

func TestProvision_LinkFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.services(svc.Deps{
		Links: faultLinks{CareLinkRepository: f.env.Store.CareLinks(), insertErr: errors.New("links unavailable")},
	})

	out, err := s.Provision.Provision(ctx, f.caregiver.Token, mariaSantos())
	require.NoError(t, err)
	assert.NotEmpty(t, out.TemporaryPassword)

	ids, profs, links := f.env.Store.Counts()
	assert.Equal(t, []int{2, 2, 0}, []int{ids, profs, links})

	// la reconciliación con el repo sano repara el link
	healthy := f.services(svc.Deps{})
	res, err := healthy.Links.ReconcileLinks(ctx, f.caregiver.Identity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Checked)
	assert.Equal(t, []string{out.ID}, res.Repaired)
	assert.Empty(t, res.Failed)

	ok, err := f.env.Store.CareLinks().Exists(ctx, f.caregiver.Identity.ID, out.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProvision_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.services(svc.Deps{})

	_, err := s.Provision.Provision(ctx, f.caregiver.Token, mariaSantos())
	require.NoError(t, err)

	_, err = s.Provision.Provision(ctx, f.caregiver.Token, mariaSantos())
	var e *svc.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, svc.KindProvisioningFailed, e.Kind)
	assert.Equal(t, "Failed to create user account: email already registered", e.Message)

	ids, profs, links := f.env.Store.Counts()
	assert.Equal(t, []int{2, 2, 1}, []int{ids, profs, links})
}

func TestProvision_GeneratorFailure(t *testing.T) {
	f := newFixture(t)
	s := f.services(svc.Deps{TempPassword: func() (string, error) { return "", errors.New("entropy") }})

	_, err := s.Provision.Provision(context.Background(), f.caregiver.Token, mariaSantos())
	assert.Equal(t, svc.KindUnexpectedFailure, svc.KindOf(err))
	ids, _, _ := f.env.Store.Counts()
	assert.Equal(t, 1, ids)
}
