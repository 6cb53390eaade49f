// Package auth contiene los controllers de registro, sign-in y cuenta propia.
package auth

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
	dto "github.com/dropDatabas3/elderwatch/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/elderwatch/internal/http/errors"
	"github.com/dropDatabas3/elderwatch/internal/http/helpers"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	svc "github.com/dropDatabas3/elderwatch/internal/http/services/auth"
	"github.com/dropDatabas3/elderwatch/internal/identity"
	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

// AuthController maneja /v1/auth/*.
type AuthController struct {
	s svc.Services
}

func NewAuthController(s svc.Services) *AuthController {
	return &AuthController{s: s}
}

// SignUp maneja POST /v1/auth/signup.
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("AuthController.SignUp"),
	)

	var req dto.SignUpRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.s.SignUp.SignUp(ctx, svc.SignUpRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		appErr := mapError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("signup failed", logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.SessionResponse{
		AccessToken: res.Session.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.Session.ExpiresAt,
		UserID:      res.Identity.ID,
		Email:       res.Identity.Email,
		Role:        res.Profile.Role.String(),
	})
}

// SignIn maneja POST /v1/auth/signin.
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("AuthController.SignIn"),
	)

	var req dto.SignInRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.s.SignIn.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		appErr := mapError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("signin failed", logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.SessionResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		UserID:      res.UserID,
		Email:       res.Email,
		Role:        res.Role.String(),
		RedirectTo:  res.RedirectTo,
	})
}

// Me maneja GET /v1/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("AuthController.Me"),
	)

	sess := mw.GetSession(ctx)
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	me, err := c.s.Me.Me(ctx, sess.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			httperrors.WriteError(w, httperrors.ErrUnauthenticated)
			return
		}
		log.Error("me failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrUnexpectedFailure.WithCause(err))
		return
	}

	resp := dto.MeResponse{
		UserID:        me.Identity.ID,
		Email:         me.Identity.Email,
		EmailVerified: me.Identity.EmailVerified,
		CreatedAt:     me.Identity.CreatedAt,
	}
	if p := me.Profile; p != nil {
		resp.Profile = &dto.ProfileResponse{
			ID:               p.ID,
			DisplayName:      p.DisplayName,
			Role:             p.Role.String(),
			Phone:            p.Phone,
			EmergencyContact: p.EmergencyContact,
			CreatedBy:        p.CreatedBy,
			CreatedAt:        p.CreatedAt,
		}
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func mapError(err error) *httperrors.AppError {
	var pe *svc.PolicyError
	switch {
	case errors.Is(err, svc.ErrMissingFields), errors.Is(err, svc.ErrInvalidEmail):
		return httperrors.ErrInvalidInput.WithMessage(capitalize(err.Error()))
	case errors.As(err, &pe):
		return httperrors.ErrInvalidInput.WithMessage("Password does not meet policy").WithDetail(pe.Error())
	case errors.Is(err, identity.ErrEmailTaken):
		return httperrors.ErrConflict.WithMessage("Email already registered")
	case errors.Is(err, identity.ErrInvalidCredentials):
		return httperrors.ErrInvalidCredentials
	default:
		return httperrors.ErrUnexpectedFailure.WithCause(err)
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
