package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	httperrors "github.com/dropDatabas3/elderwatch/internal/http/errors"
	"github.com/dropDatabas3/elderwatch/internal/http/helpers"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// RequireSession exige un bearer token válido e inyecta la sesión en el contexto.
func RequireSession(verifier access.SessionVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := helpers.BearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer`)
				httperrors.WriteError(w, httperrors.ErrUnauthenticated.WithMessage("No authorization header"))
				return
			}
			sess, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				if !errors.Is(err, identity.ErrInvalidSession) {
					logger.From(r.Context()).Error("session verification failed", logger.Op("RequireSession"), logger.Err(err))
					httperrors.WriteError(w, httperrors.ErrUnexpectedFailure.WithCause(err))
					return
				}
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(withSessionLogger(WithSession(r.Context(), sess, token), sess)))
		})
	}
}

// OptionalSession es RequireSession sin rechazo: un token ausente o inválido
// deja el request sin sesión.
func OptionalSession(verifier access.SessionVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := helpers.BearerToken(r); token != "" {
				if sess, err := verifier.VerifyToken(r.Context(), token); err == nil {
					r = r.WithContext(withSessionLogger(WithSession(r.Context(), sess, token), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withSessionLogger(ctx context.Context, s *identity.Session) context.Context {
	return logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(s.UserID)))
}

// RoleChecker decide el acceso de una sesión ya verificada.
type RoleChecker interface {
	Check(ctx context.Context, session *identity.Session, required repository.Role) (access.Result, error)
}

// RequireRole exige que el perfil de la sesión tenga el rol indicado.
// Responde 403 con la ruta de redirección en detail. Debe ir después de RequireSession.
func RequireRole(checker RoleChecker, required repository.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess == nil {
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}
			res, err := checker.Check(r.Context(), sess, required)
			if err != nil {
				httperrors.WriteError(w, httperrors.ErrUnexpectedFailure.WithCause(err))
				return
			}
			if !res.Allowed {
				httperrors.WriteError(w, httperrors.ErrForbidden.
					WithMessage("Requires "+required.String()+" role").
					WithDetail(res.RedirectTo))
				return
			}
			next.ServeHTTP(w, r.WithContext(withRole(r.Context(), res.Role)))
		})
	}
}
