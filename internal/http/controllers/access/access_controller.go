// Package access contiene el controller del chequeo de acceso por rol.
package access

import (
	"net/http"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	dto "github.com/dropDatabas3/elderwatch/internal/http/dto/access"
	httperrors "github.com/dropDatabas3/elderwatch/internal/http/errors"
	"github.com/dropDatabas3/elderwatch/internal/http/helpers"
	svc "github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

type AccessController struct {
	service svc.AccessService
}

func NewAccessController(service svc.AccessService) *AccessController {
	return &AccessController{service: service}
}

// Check maneja GET /v1/access?role=caregiver|patient.
// Siempre responde 200: la decisión viaja en el body.
func (c *AccessController) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("AccessController.Check"),
	)

	raw := r.URL.Query().Get("role")
	required := repository.ParseRole(raw)
	if raw != "" && required == repository.RoleUnknown {
		httperrors.WriteError(w, httperrors.ErrInvalidInput.WithMessage("Unknown role").WithDetail(raw))
		return
	}

	res, err := c.service.Authorize(ctx, helpers.BearerToken(r), required)
	if err != nil {
		log.Error("authorize failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUnexpectedFailure.WithCause(err))
		return
	}

	resp := dto.AccessResponse{
		Allowed:    res.Allowed,
		RedirectTo: res.RedirectTo,
		Role:       res.Role.String(),
	}
	if res.Session != nil {
		resp.UserID = res.Session.UserID
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
