// Package dashboard contiene los controllers de lectura de dashboards.
package dashboard

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	dto "github.com/dropDatabas3/elderwatch/internal/http/dto/dashboard"
	httperrors "github.com/dropDatabas3/elderwatch/internal/http/errors"
	"github.com/dropDatabas3/elderwatch/internal/http/helpers"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	svc "github.com/dropDatabas3/elderwatch/internal/http/services/dashboard"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// DashboardController maneja /v1/patients/{id}/health y /v1/dashboard/overview.
type DashboardController struct {
	samples  svc.SamplesService
	overview svc.OverviewService
}

func NewDashboardController(samples svc.SamplesService, overview svc.OverviewService) *DashboardController {
	return &DashboardController{samples: samples, overview: overview}
}

// Samples maneja GET /v1/patients/{id}/health. "me" es el propio usuario.
func (c *DashboardController) Samples(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("DashboardController.Samples"),
	)

	sess := mw.GetSession(ctx)
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}
	userID := chi.URLParam(r, "id")
	if userID == "" || userID == "me" {
		userID = sess.UserID
	}

	res, err := c.samples.Samples(ctx, sess.UserID, userID)
	if err != nil {
		if errors.Is(err, svc.ErrForbidden) {
			httperrors.WriteError(w, httperrors.ErrForbidden.WithMessage("Not linked to this patient"))
			return
		}
		log.Error("samples failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUnexpectedFailure.WithCause(err))
		return
	}

	resp := dto.SamplesResponse{
		UserID:  res.UserID,
		Status:  string(res.Status),
		Samples: make([]dto.SampleResponse, 0, len(res.Samples)),
		Alerts:  toAlerts(res.Alerts),
	}
	for _, s := range res.Samples {
		resp.Samples = append(resp.Samples, toSample(s))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Overview maneja GET /v1/dashboard/overview.
func (c *DashboardController) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("DashboardController.Overview"),
	)

	sess := mw.GetSession(ctx)
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	ov, err := c.overview.Overview(ctx, sess.UserID)
	if err != nil {
		log.Error("overview failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUnexpectedFailure.WithCause(err))
		return
	}

	resp := dto.OverviewResponse{
		CaregiverID: ov.CaregiverID,
		GeneratedAt: ov.GeneratedAt,
		Patients:    make([]dto.PatientOverviewResponse, 0, len(ov.Patients)),
	}
	for _, p := range ov.Patients {
		row := dto.PatientOverviewResponse{
			PatientID: p.PatientID,
			Name:      p.Name,
			Email:     p.Email,
			LinkedAt:  p.LinkedAt,
			Status:    string(p.Status),
			Alerts:    toAlerts(p.Alerts),
		}
		if p.Latest != nil {
			s := toSample(*p.Latest)
			row.Latest = &s
		}
		resp.Patients = append(resp.Patients, row)
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func toSample(s repository.HealthSample) dto.SampleResponse {
	return dto.SampleResponse{
		ID:            s.ID,
		HeartRate:     s.HeartRate,
		Steps:         s.Steps,
		SleepDuration: s.SleepDuration,
		FallDetected:  s.FallDetected,
		CreatedAt:     s.CreatedAt,
	}
}

func toAlerts(in []svc.Alert) []dto.AlertResponse {
	out := make([]dto.AlertResponse, 0, len(in))
	for _, a := range in {
		out = append(out, dto.AlertResponse{
			SampleID:    a.SampleID,
			Type:        a.Type,
			Description: a.Description,
			Severity:    string(a.Severity),
			At:          a.At,
		})
	}
	return out
}
