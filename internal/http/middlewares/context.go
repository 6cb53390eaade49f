package middlewares

import (
	"context"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/identity"
)

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxSessionKey   ctxKey = "session"
	ctxTokenKey     ctxKey = "token"
	ctxRoleKey      ctxKey = "role"
)

func setRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, id)
}

// WithSession inyecta la sesión verificada y su token.
func WithSession(ctx context.Context, s *identity.Session, token string) context.Context {
	ctx = context.WithValue(ctx, ctxSessionKey, s)
	return context.WithValue(ctx, ctxTokenKey, token)
}

func withRole(ctx context.Context, role repository.Role) context.Context {
	return context.WithValue(ctx, ctxRoleKey, role)
}

// GetRequestID retorna "" si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return s
	}
	return ""
}

// GetSession retorna nil si la ruta no pasó por RequireSession.
func GetSession(ctx context.Context) *identity.Session {
	if s, ok := ctx.Value(ctxSessionKey).(*identity.Session); ok {
		return s
	}
	return nil
}

// GetToken retorna el bearer token de la sesión verificada.
func GetToken(ctx context.Context) string {
	if s, ok := ctx.Value(ctxTokenKey).(string); ok {
		return s
	}
	return ""
}

// GetRole retorna el rol del perfil resuelto por RequireRole.
func GetRole(ctx context.Context) repository.Role {
	if r, ok := ctx.Value(ctxRoleKey).(repository.Role); ok {
		return r
	}
	return repository.RoleUnknown
}
