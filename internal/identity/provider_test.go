package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/jwt"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
	"github.com/dropDatabas3/elderwatch/internal/store/memory"
)

var fastParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func newProvider(t *testing.T) (*identity.Provider, *memory.Store) {
	t.Helper()
	st := memory.New()
	iss, err := jwt.NewIssuer("elderwatch", "test-secret-0123456789abcdef0123", time.Hour)
	require.NoError(t, err)
	return identity.NewProvider(st.Identities(), iss, fastParams), st
}

func TestCreateSignInVerify(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)

	ident, err := p.CreateIdentity(ctx, identity.CreateInput{
		Email:          "  Ana@Example.com ",
		Password:       "Secret123!",
		EmailConfirmed: true,
		Metadata:       repository.IdentityMetadata{Role: repository.RoleCaregiver, DisplayName: "ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", ident.Email)
	assert.NotEqual(t, "Secret123!", ident.PasswordHash)

	_, err = p.SignIn(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "Secret123!")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	sess, err := p.SignIn(ctx, "ANA@example.com", "Secret123!")
	require.NoError(t, err)

	got, err := p.VerifyToken(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ident.ID, got.UserID)
}

func TestCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)

	_, err := p.CreateIdentity(ctx, identity.CreateInput{Email: "dup@example.com", Password: "x"})
	require.NoError(t, err)
	_, err = p.CreateIdentity(ctx, identity.CreateInput{Email: "DUP@example.com", Password: "y"})
	assert.ErrorIs(t, err, identity.ErrEmailTaken)
}

func TestVerifyTokenOfDeletedIdentity(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)

	ident, err := p.CreateIdentity(ctx, identity.CreateInput{Email: "gone@example.com", Password: "x"})
	require.NoError(t, err)
	sess, err := p.IssueSession(ident)
	require.NoError(t, err)

	require.NoError(t, p.DeleteIdentity(ctx, ident.ID))
	// idempotente
	require.NoError(t, p.DeleteIdentity(ctx, ident.ID))

	_, err = p.VerifyToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, identity.ErrInvalidSession)

	_, err = p.VerifyToken(ctx, "")
	assert.ErrorIs(t, err, identity.ErrInvalidSession)
}
