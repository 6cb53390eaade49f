// Package access decide qué dashboard puede ver una sesión según el rol de su perfil.
package access

import (
	"context"
	"errors"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// Routes son los destinos de redirección.
type Routes struct {
	SignIn    string
	Caregiver string
	Patient   string
}

// DefaultRoutes retorna /auth, /caregiver y /patient.
func DefaultRoutes() Routes {
	return Routes{SignIn: "/auth", Caregiver: "/caregiver", Patient: "/patient"}
}

// withDefaults completa rutas vacías.
func (r Routes) withDefaults() Routes {
	d := DefaultRoutes()
	if r.SignIn == "" {
		r.SignIn = d.SignIn
	}
	if r.Caregiver == "" {
		r.Caregiver = d.Caregiver
	}
	if r.Patient == "" {
		r.Patient = d.Patient
	}
	return r
}

// ForRole retorna el dashboard propio del rol; sign-in para rol desconocido.
func (r Routes) ForRole(role repository.Role) string {
	r = r.withDefaults()
	switch role {
	case repository.RoleCaregiver:
		return r.Caregiver
	case repository.RolePatient:
		return r.Patient
	default:
		return r.SignIn
	}
}

// Decision es el resultado del chequeo: permitir o redirigir.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Decide es la regla pura de acceso:
//   - sin sesión: sign-in
//   - sin rol requerido o rol igual al requerido: permitir
//   - en otro caso: el dashboard del propio rol (sign-in si es desconocido)
func Decide(session *identity.Session, role, required repository.Role, routes Routes) Decision {
	routes = routes.withDefaults()
	if session == nil {
		return Decision{RedirectTo: routes.SignIn}
	}
	if required == repository.RoleUnknown || role == required {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: routes.ForRole(role)}
}

// SessionVerifier resuelve un token a una sesión.
type SessionVerifier interface {
	VerifyToken(ctx context.Context, token string) (*identity.Session, error)
}

// Result acompaña la decisión con lo resuelto para llegar a ella.
type Result struct {
	Decision
	Session *identity.Session
	Role    repository.Role
}

// AccessService define el chequeo de acceso por rol.
type AccessService interface {
	// Authorize resuelve el token (inválido = sin sesión), lee el perfil una vez y decide.
	Authorize(ctx context.Context, token string, required repository.Role) (Result, error)
	// Check decide para una sesión ya verificada.
	Check(ctx context.Context, session *identity.Session, required repository.Role) (Result, error)
}

type accessService struct {
	sessions SessionVerifier
	profiles repository.ProfileRepository
	routes   Routes
}

// NewAccessService crea el service de acceso.
func NewAccessService(sessions SessionVerifier, profiles repository.ProfileRepository, routes Routes) AccessService {
	return &accessService{sessions: sessions, profiles: profiles, routes: routes.withDefaults()}
}

func (s *accessService) Authorize(ctx context.Context, token string, required repository.Role) (Result, error) {
	if token == "" {
		return Result{Decision: Decide(nil, repository.RoleUnknown, required, s.routes)}, nil
	}
	session, err := s.sessions.VerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidSession) {
			return Result{Decision: Decide(nil, repository.RoleUnknown, required, s.routes)}, nil
		}
		return Result{}, err
	}
	return s.Check(ctx, session, required)
}

func (s *accessService) Check(ctx context.Context, session *identity.Session, required repository.Role) (Result, error) {
	if session == nil {
		return Result{Decision: Decide(nil, repository.RoleUnknown, required, s.routes)}, nil
	}
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("access"),
		logger.Op("Check"),
		logger.UserID(session.UserID),
	)

	role := repository.RoleUnknown
	prof, err := s.profiles.GetByUserID(ctx, session.UserID)
	switch {
	case err == nil:
		role = prof.Role
	case repository.IsNotFound(err):
		log.Debug("session without profile")
	default:
		log.Error("profile lookup failed", logger.Err(err))
		return Result{}, err
	}

	d := Decide(session, role, required, s.routes)
	if !d.Allowed {
		log.Debug("access redirected", logger.Role(role.String()), logger.String("redirect_to", d.RedirectTo))
	}
	return Result{Decision: d, Session: session, Role: role}, nil
}
