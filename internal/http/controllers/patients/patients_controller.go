// Package patients contiene los controllers de aprovisionamiento y links.
package patients

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	dto "github.com/dropDatabas3/elderwatch/internal/http/dto/patients"
	httperrors "github.com/dropDatabas3/elderwatch/internal/http/errors"
	"github.com/dropDatabas3/elderwatch/internal/http/helpers"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	svc "github.com/dropDatabas3/elderwatch/internal/http/services/patients"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// PatientsController maneja /v1/patients.
type PatientsController struct {
	provision svc.ProvisionService
	links     svc.LinkService
}

// NewPatientsController crea el controller de pacientes.
func NewPatientsController(provision svc.ProvisionService, links svc.LinkService) *PatientsController {
	return &PatientsController{provision: provision, links: links}
}

// Create maneja POST /v1/patients (y el alias /functions/v1/create-patient).
// La autenticación la resuelve el service para que el orden de validación
// sea llamador → entrada. Un body ilegible equivale a un body vacío.
func (c *PatientsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("PatientsController.Create"),
	)

	var req dto.CreatePatientRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		log.Debug("unreadable body treated as empty", logger.Err(err))
		req = dto.CreatePatientRequest{}
	}

	out, err := c.provision.Provision(ctx, helpers.BearerToken(r), svc.ProvisionRequest{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		appErr := mapError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("provision failed", logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.CreatePatientResponse{
		Success: true,
		Patient: dto.PatientResponse{
			ID:               out.ID,
			Email:            out.Email,
			Name:             out.Name,
			Phone:            out.Phone,
			EmergencyContact: out.EmergencyContact,
			TempPassword:     out.TemporaryPassword,
		},
	})
}

// List maneja GET /v1/patients.
func (c *PatientsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("PatientsController.List"),
	)

	sess := mw.GetSession(ctx)
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	list, err := c.links.List(ctx, sess.UserID)
	if err != nil {
		log.Error("list failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUnexpectedFailure.WithCause(err))
		return
	}

	resp := dto.ListPatientsResponse{Patients: make([]dto.LinkedPatientResponse, 0, len(list))}
	for _, lp := range list {
		resp.Patients = append(resp.Patients, toLinkedPatient(lp))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Reconcile maneja POST /v1/patients/links/reconcile.
func (c *PatientsController) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("PatientsController.Reconcile"),
	)

	sess := mw.GetSession(ctx)
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	res, err := c.links.ReconcileLinks(ctx, sess.UserID)
	if err != nil {
		log.Error("reconcile failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUnexpectedFailure.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ReconcileResponse{
		Checked:  res.Checked,
		Repaired: res.Repaired,
		Failed:   res.Failed,
	})
}

func toLinkedPatient(lp repository.LinkedPatient) dto.LinkedPatientResponse {
	return dto.LinkedPatientResponse{
		ID:               lp.Profile.UserID,
		Email:            lp.Email,
		Name:             lp.Profile.DisplayName,
		Phone:            lp.Profile.Phone,
		EmergencyContact: lp.Profile.EmergencyContact,
		CreatedAt:        lp.Profile.CreatedAt,
		LinkedAt:         lp.Link.CreatedAt,
	}
}

// mapError traduce los errores tipados del service a AppError.
func mapError(err error) *httperrors.AppError {
	var e *svc.Error
	if !errors.As(err, &e) {
		return httperrors.ErrUnexpectedFailure.WithCause(err)
	}
	msg := e.Message
	switch e.Kind {
	case svc.KindUnauthenticated:
		return httperrors.ErrUnauthenticated.WithMessage(msg).WithCause(err)
	case svc.KindForbidden:
		return httperrors.ErrForbidden.WithMessage(msg).WithCause(err)
	case svc.KindInvalidInput:
		return httperrors.ErrInvalidInput.WithMessage(msg).WithCause(err)
	case svc.KindProvisioningFailed:
		return httperrors.ErrProvisioning.WithMessage(msg).WithCause(err)
	default:
		return httperrors.ErrUnexpectedFailure.WithCause(err)
	}
}
