package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/elderwatch/internal/http/controllers/auth"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/rate"
)

// AuthRouterDeps contiene las dependencias para el router de auth.
type AuthRouterDeps struct {
	Controllers *ctrl.Controllers
	Sessions    access.SessionVerifier
	SignIn      rate.Limiter // opcional
	SignUp      rate.Limiter // opcional
}

// RegisterAuthRoutes registra /v1/auth/*.
func RegisterAuthRoutes(r chi.Router, deps AuthRouterDeps) {
	c := deps.Controllers.Auth

	// POST /v1/auth/signup
	r.Method(http.MethodPost, "/v1/auth/signup", publicAuthHandler(deps.SignUp, "signup", http.HandlerFunc(c.SignUp)))

	// POST /v1/auth/signin
	r.Method(http.MethodPost, "/v1/auth/signin", publicAuthHandler(deps.SignIn, "signin", http.HandlerFunc(c.SignIn)))

	// GET /v1/auth/me (requiere sesión)
	r.Method(http.MethodGet, "/v1/auth/me", mw.Chain(http.HandlerFunc(c.Me), mw.RequireSession(deps.Sessions)))
}

// publicAuthHandler: endpoints sin sesión que emiten tokens.
func publicAuthHandler(limiter rate.Limiter, bucket string, h http.Handler) http.Handler {
	chain := []mw.Middleware{mw.WithNoStore()}
	if limiter != nil {
		chain = append(chain, mw.WithRateLimit(mw.RateLimitConfig{Limiter: limiter, Bucket: bucket}))
	}
	return mw.Chain(h, chain...)
}
