package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/"},
		{"/v1/patients", "/v1/patients"},
		{"/v1/patients/42/health", "/v1/patients/:id/health"},
		{"/v1/patients/3f1c2a9e-6b1d-4c6e-9a7e-0d2b5e8f1a34/health", "/v1/patients/:id/health"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, normalizePath(c.in), c.in)
	}
}

func TestRegisterAndServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := Register(Config{Registry: reg, Gatherer: reg})
	require.NoError(t, err)

	ProvisioningOutcome("success")
	Compensation("provision_patient", "create_identity", nil)
	Compensation("provision_patient", "create_identity", errors.New("boom"))
	LinkFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(linkFailuresTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(compensationsTotal.WithLabelValues("provision_patient", "create_identity", "failed")))

	wrapped := WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/patients", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "patient_provisioning_total"))
	assert.True(t, strings.Contains(body, `status="418"`))
}
