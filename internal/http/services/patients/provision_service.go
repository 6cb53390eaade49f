package patients

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/elderwatch/internal/audit"
	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	"github.com/dropDatabas3/elderwatch/internal/http/metrics"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
	"github.com/dropDatabas3/elderwatch/internal/saga"
	"github.com/dropDatabas3/elderwatch/internal/util"
	"github.com/dropDatabas3/elderwatch/internal/validation"
)

// ProvisionRequest son los datos del paciente que carga el cuidador.
type ProvisionRequest struct {
	Name             string
	Email            string
	Phone            *string
	EmergencyContact *string
}

// PatientSummary es lo que vuelve al cuidador. TemporaryPassword se muestra una sola vez.
type PatientSummary struct {
	ID                string
	Email             string
	Name              string
	Phone             *string
	EmergencyContact  *string
	TemporaryPassword string
}

// IdentityProvider son las operaciones de identidad que usa el aprovisionamiento.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (*identity.Session, error)
	CreateIdentity(ctx context.Context, in identity.CreateInput) (*repository.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// OverviewInvalidator descarta el overview cacheado de un cuidador.
type OverviewInvalidator interface {
	InvalidateOverview(ctx context.Context, caregiverID string)
}

// ProvisionService crea pacientes en nombre de un cuidador.
type ProvisionService interface {
	// Provision valida el llamador y la entrada sin efectos, y después crea
	// identidad, perfil y link. Si el perfil falla la identidad se elimina;
	// si el link falla se loguea y el paciente igual se devuelve.
	Provision(ctx context.Context, callerToken string, req ProvisionRequest) (*PatientSummary, error)
}

type provisionService struct {
	idp       IdentityProvider
	profiles  repository.ProfileRepository
	links     repository.CareLinkRepository
	overview  OverviewInvalidator
	genSecret func() (string, error)
}

// NewProvisionService crea el service. overview puede ser nil.
func NewProvisionService(idp IdentityProvider, profiles repository.ProfileRepository, links repository.CareLinkRepository, overview OverviewInvalidator, genSecret func() (string, error)) ProvisionService {
	return &provisionService{idp: idp, profiles: profiles, links: links, overview: overview, genSecret: genSecret}
}

const sagaProvision = "provision_patient"

func (s *provisionService) Provision(ctx context.Context, callerToken string, req ProvisionRequest) (out *PatientSummary, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("patients"),
		logger.Op("Provision"),
	)
	defer func() {
		if err != nil {
			metrics.ProvisioningOutcome(KindOf(err).String())
			return
		}
		metrics.ProvisioningOutcome("success")
	}()

	// 1) Llamador
	callerToken = strings.TrimSpace(callerToken)
	if callerToken == "" {
		return nil, newError(KindUnauthenticated, MsgNoAuthorization, nil)
	}
	sess, err := s.idp.VerifyToken(ctx, callerToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidSession) {
			return nil, newError(KindUnauthenticated, MsgInvalidAuth, err)
		}
		log.Error("session verification failed", logger.Err(err))
		return nil, newError(KindUnexpectedFailure, "Internal server error", err)
	}
	callerID := sess.UserID
	log = log.With(logger.CaregiverID(callerID))

	caller, err := s.profiles.GetByUserID(ctx, callerID)
	switch {
	case repository.IsNotFound(err):
		return nil, newError(KindForbidden, MsgOnlyCaregivers, nil)
	case err != nil:
		log.Error("caller profile lookup failed", logger.Err(err))
		return nil, newError(KindUnexpectedFailure, "Internal server error", err)
	case caller.Role != repository.RoleCaregiver:
		log.Warn("non caregiver tried to provision", logger.Role(caller.Role.String()))
		return nil, newError(KindForbidden, MsgOnlyCaregivers, nil)
	}

	// 2) Entrada
	name := strings.TrimSpace(req.Name)
	email := identity.NormalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, newError(KindInvalidInput, MsgNameEmailRequired, nil)
	}
	if !validation.Email(email) {
		return nil, newError(KindInvalidInput, MsgInvalidEmail, nil)
	}
	phone := optional(req.Phone)
	emergency := optional(req.EmergencyContact)

	// 3) Escrituras
	temp, err := s.genSecret()
	if err != nil {
		log.Error("temporary password generation failed", logger.Err(err))
		return nil, newError(KindUnexpectedFailure, "Internal server error", err)
	}

	sg := saga.New(sagaProvision, saga.WithObserver(metrics.Compensation))

	ident, err := saga.Do(ctx, sg, "create_identity",
		func(ctx context.Context) (*repository.Identity, error) {
			return s.idp.CreateIdentity(ctx, identity.CreateInput{
				Email:          email,
				Password:       temp,
				EmailConfirmed: true,
				Metadata: repository.IdentityMetadata{
					Role:        repository.RolePatient,
					DisplayName: name,
					CreatedBy:   callerID,
				},
			})
		},
		func(ctx context.Context, ident *repository.Identity) error {
			return s.idp.DeleteIdentity(ctx, ident.ID)
		},
	)
	if err != nil {
		log.Warn("identity creation failed", logger.Email(util.MaskEmail(email)), logger.Err(err))
		return nil, newError(KindProvisioningFailed, "Failed to create user account: "+causeMessage(err), err)
	}
	log = log.With(logger.PatientID(ident.ID))

	_, err = saga.Do(ctx, sg, "insert_profile",
		func(ctx context.Context) (*repository.Profile, error) {
			return s.profiles.Insert(ctx, repository.InsertProfileInput{
				UserID:           ident.ID,
				DisplayName:      &name,
				Role:             repository.RolePatient,
				Phone:            phone,
				EmergencyContact: emergency,
				CreatedBy:        &callerID,
			})
		}, nil)
	if err != nil {
		log.Error("profile insert failed, compensating", logger.Err(err))
		cerr := sg.Compensate(ctx)
		if cerr != nil {
			log.Error("compensation failed, identity may be orphaned", logger.Err(cerr))
		}
		audit.Log(ctx, audit.EventProvisionCompensated,
			logger.CaregiverID(callerID), logger.PatientID(ident.ID), logger.Bool("compensated", cerr == nil))
		return nil, newError(KindProvisioningFailed, "Failed to create profile: "+causeMessage(err), err)
	}

	_, err = saga.Do(ctx, sg, "link_caregiver",
		func(ctx context.Context) (*repository.CareLink, error) {
			return s.links.Insert(ctx, callerID, ident.ID)
		}, nil)
	if err != nil {
		// El paciente existe y tiene perfil; ReconcileLinks repara el link.
		metrics.LinkFailure()
		log.Error("caregiver link failed", logger.Err(err))
	}
	linked := err == nil

	if s.overview != nil {
		s.overview.InvalidateOverview(ctx, callerID)
	}

	log.Info("patient provisioned")
	audit.Log(ctx, audit.EventPatientProvisioned,
		logger.CaregiverID(callerID), logger.PatientID(ident.ID), logger.Bool("linked", linked))
	return &PatientSummary{
		ID:                ident.ID,
		Email:             ident.Email,
		Name:              name,
		Phone:             phone,
		EmergencyContact:  emergency,
		TemporaryPassword: temp,
	}, nil
}

// causeMessage retorna el mensaje de la causa sin el envoltorio del saga.
func causeMessage(err error) string {
	var se *saga.StepError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}

// optional recorta el valor y devuelve nil si queda vacío.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
