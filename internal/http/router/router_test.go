package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/elderwatch/internal/http/controllers"
	mw "github.com/dropDatabas3/elderwatch/internal/http/middlewares"
	"github.com/dropDatabas3/elderwatch/internal/http/services"
	"github.com/dropDatabas3/elderwatch/internal/http/services/access"
	"github.com/dropDatabas3/elderwatch/internal/security/password"
	"github.com/dropDatabas3/elderwatch/internal/testkit"
)

func newHandler(t *testing.T) (http.Handler, *testkit.Env) {
	t.Helper()
	env := testkit.New(t)
	svcs := services.New(services.Deps{
		Store:    env.Store,
		Provider: env.Provider,
		Routes:   access.DefaultRoutes(),
		Policy:   password.Policy{MinLength: 8},
	})
	h := New(Deps{
		Controllers: controllers.New(svcs),
		Sessions:    env.Provider,
		Roles:       svcs.Access.Access,
		CORS:        mw.CORSConfig{AllowedOrigins: []string{"*"}},
	})
	return h, env
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	s, _ := m["error"].(string)
	return s
}

func TestPreflight(t *testing.T) {
	h, _ := newHandler(t)
	for _, path := range []string{"/v1/patients", "/functions/v1/create-patient"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestProvisionFlow(t *testing.T) {
	h, env := newHandler(t)
	cg := env.Caregiver(t, "carer@example.com")
	pt := env.Patient(t, "p@example.com", "")
	body := `{"name":"Maria Santos","email":"maria@example.com","phone":"+1-555-0100"}`

	rec := do(h, http.MethodPost, "/v1/patients", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No authorization header", errorOf(t, rec))

	rec = do(h, http.MethodPost, "/v1/patients", "garbage", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid authentication", errorOf(t, rec))

	rec = do(h, http.MethodPost, "/v1/patients", pt.Token, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only caregivers can create patient accounts", errorOf(t, rec))

	rec = do(h, http.MethodPost, "/v1/patients", cg.Token, `{"name":"","email":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name and email are required", errorOf(t, rec))

	rec = do(h, http.MethodPost, "/v1/patients", cg.Token, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var out struct {
		Success bool `json:"success"`
		Patient struct {
			ID           string  `json:"id"`
			Email        string  `json:"email"`
			Name         string  `json:"name"`
			Phone        *string `json:"phone"`
			TempPassword string  `json:"tempPassword"`
		} `json:"patient"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "maria@example.com", out.Patient.Email)
	assert.Equal(t, "Maria Santos", out.Patient.Name)
	require.NotNil(t, out.Patient.Phone)
	assert.Equal(t, "+1-555-0100", *out.Patient.Phone)
	assert.Regexp(t, `^[0-9a-z]{12}A1!$`, out.Patient.TempPassword)

	// duplicado vía alias
	rec = do(h, http.MethodPost, "/functions/v1/create-patient", cg.Token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to create user account: email already registered", errorOf(t, rec))

	// el nuevo paciente aparece en el listado del cuidador
	rec = do(h, http.MethodGet, "/v1/patients", cg.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), out.Patient.ID)
}

func TestProvisionAlias(t *testing.T) {
	h, env := newHandler(t)
	cg := env.Caregiver(t, "carer@example.com")

	rec := do(h, http.MethodPost, "/functions/v1/create-patient", cg.Token, `{"name":"Ana","email":"ana@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestCaregiverRoutesRequireRole(t *testing.T) {
	h, env := newHandler(t)
	pt := env.Patient(t, "p@example.com", "")

	rec := do(h, http.MethodGet, "/v1/patients", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodGet, "/v1/dashboard/overview", pt.Token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Requires caregiver role", errorOf(t, rec))
}

func TestAccessRoute(t *testing.T) {
	h, env := newHandler(t)
	cg := env.Caregiver(t, "carer@example.com")

	rec := do(h, http.MethodGet, "/v1/access?role=caregiver", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect_to":"/auth"`)

	rec = do(h, http.MethodGet, "/v1/access?role=patient", cg.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"allowed":false`)
	assert.Contains(t, rec.Body.String(), `"redirect_to":"/caregiver"`)
}

func TestReadyzAndNotFound(t *testing.T) {
	h, _ := newHandler(t)

	rec := do(h, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// sin handler de métricas la ruta no existe
	rec = do(h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
