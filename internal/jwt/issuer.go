// Package jwt emite y valida los tokens de sesión (HS256).
package jwt

import (
	"errors"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid_jwt")
	ErrInvalidIssuer = errors.New("invalid_issuer")
	ErrEmptySecret   = errors.New("empty_jwt_secret")
)

// SessionClaims son los claims del access token de sesión.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwtv5.RegisteredClaims
}

// Issuer firma tokens HS256 con un secreto compartido.
type Issuer struct {
	Iss       string
	AccessTTL time.Duration
	secret    []byte
	now       func() time.Time
}

func NewIssuer(iss, secret string, accessTTL time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &Issuer{Iss: iss, AccessTTL: accessTTL, secret: []byte(secret), now: time.Now}, nil
}

// IssueAccess firma un token para sub. Devuelve el token y su expiración.
func (i *Issuer) IssueAccess(sub, email, role string) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.AccessTTL)
	claims := SessionClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   sub,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma, exp/nbf (con 30s de tolerancia) e issuer.
func (i *Issuer) Parse(raw string) (*SessionClaims, error) {
	tok, err := jwtv5.ParseWithClaims(raw, &SessionClaims{}, func(t *jwtv5.Token) (any, error) {
		// bloquear alg confusion
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	},
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithLeeway(30*time.Second),
		jwtv5.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	c, ok := tok.Claims.(*SessionClaims)
	if !ok || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	if i.Iss != "" && c.Issuer != i.Iss {
		return nil, ErrInvalidIssuer
	}
	return c, nil
}
