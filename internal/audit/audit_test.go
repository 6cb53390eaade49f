package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

func TestLogUsesContextLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).With(zap.String("request_id", "r1")))

	Log(ctx, EventPatientProvisioned, logger.PatientID("p1"))

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, EventPatientProvisioned, e.Message)
	assert.Equal(t, "audit", e.LoggerName)
	fields := e.ContextMap()
	assert.Equal(t, "r1", fields["request_id"])
	assert.Equal(t, "p1", fields["patient_id"])
	assert.Equal(t, EventPatientProvisioned, fields["event"])
}
