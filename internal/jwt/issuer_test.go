package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789abcdef0123"

func TestIssueAndParse(t *testing.T) {
	iss, err := NewIssuer("elderwatch", testSecret, time.Minute)
	require.NoError(t, err)

	tok, exp, err := iss.IssueAccess("user-1", "a@b.com", "caregiver")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	c, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.Subject)
	assert.Equal(t, "caregiver", c.Role)
}

func TestParseRejects(t *testing.T) {
	iss, err := NewIssuer("elderwatch", testSecret, time.Minute)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, _ := NewIssuer("elderwatch", "another-secret-0123456789abcdef", time.Minute)
		tok, _, _ := other.IssueAccess("u", "", "")
		_, err := iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past, _ := NewIssuer("elderwatch", testSecret, time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		tok, _, _ := past.IssueAccess("u", "", "")
		_, err := iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, _ := NewIssuer("someone-else", testSecret, time.Minute)
		tok, _, _ := other.IssueAccess("u", "", "")
		_, err := iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidIssuer)
	})

	t.Run("alg none", func(t *testing.T) {
		tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, jwtv5.MapClaims{"sub": "u", "iss": "elderwatch"}).
			SignedString(jwtv5.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("x", "  ", time.Minute)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
