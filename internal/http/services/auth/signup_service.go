package auth

import (
	"context"
	"strings"

	"github.com/dropDatabas3/elderwatch/internal/audit"
	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/http/metrics"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
	"github.com/dropDatabas3/elderwatch/internal/saga"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
	"github.com/dropDatabas3/elderwatch/internal/util"
	"github.com/dropDatabas3/elderwatch/internal/validation"
)

// SignUpRequest es el auto-registro de un cuidador.
type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName string
}

// SignUpResult contiene la cuenta creada y una sesión ya emitida.
type SignUpResult struct {
	Identity *repository.Identity
	Profile  *repository.Profile
	Session  *identity.SignedSession
}

// SignUpService registra cuidadores. Los pacientes sólo se crean por aprovisionamiento.
type SignUpService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)
}

type signUpService struct {
	idp      Provider
	profiles repository.ProfileRepository
	policy   password.Policy
}

// NewSignUpService crea el service de registro.
func NewSignUpService(idp Provider, profiles repository.ProfileRepository, policy password.Policy) SignUpService {
	return &signUpService{idp: idp, profiles: profiles, policy: policy}
}

func (s *signUpService) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.signup"),
		logger.Op("SignUp"),
	)

	email := identity.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !validation.Email(email) {
		return nil, ErrInvalidEmail
	}
	if ok, reasons := s.policy.Validate(req.Password); !ok {
		return nil, &PolicyError{Reasons: reasons}
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	sg := saga.New("signup_caregiver", saga.WithObserver(metrics.Compensation))

	ident, err := saga.Do(ctx, sg, "create_identity",
		func(ctx context.Context) (*repository.Identity, error) {
			return s.idp.CreateIdentity(ctx, identity.CreateInput{
				Email:    email,
				Password: req.Password,
				Metadata: repository.IdentityMetadata{Role: repository.RoleCaregiver, DisplayName: name},
			})
		},
		func(ctx context.Context, ident *repository.Identity) error {
			return s.idp.DeleteIdentity(ctx, ident.ID)
		},
	)
	if err != nil {
		log.Warn("identity creation failed", logger.Email(util.MaskEmail(email)), logger.Err(err))
		return nil, err
	}
	log = log.With(logger.UserID(ident.ID))

	prof, err := saga.Do(ctx, sg, "insert_profile",
		func(ctx context.Context) (*repository.Profile, error) {
			return s.profiles.Insert(ctx, repository.InsertProfileInput{
				UserID:      ident.ID,
				DisplayName: &name,
				Role:        repository.RoleCaregiver,
			})
		}, nil)
	if err != nil {
		log.Error("profile insert failed, compensating", logger.Err(err))
		if cerr := sg.Compensate(ctx); cerr != nil {
			log.Error("compensation failed", logger.Err(cerr))
		}
		return nil, err
	}

	sess, err := s.idp.IssueSession(ident)
	if err != nil {
		log.Error("issue session failed", logger.Err(err))
		return nil, err
	}

	log.Info("caregiver registered")
	audit.Log(ctx, audit.EventCaregiverRegistered, logger.UserID(ident.ID))
	return &SignUpResult{Identity: ident, Profile: prof, Session: sess}, nil
}
