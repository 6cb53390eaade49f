// Package audit registra eventos de negocio relevantes (altas, compensaciones,
// reparaciones) en un logger dedicado para poder filtrarlos aparte.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/elderwatch/internal/observability/logger"
)

const (
	EventCaregiverRegistered  = "caregiver.registered"
	EventPatientProvisioned   = "patient.provisioned"
	EventProvisionCompensated = "patient.provision_compensated"
	EventLinksReconciled      = "care_links.reconciled"
)

// Log escribe el evento con el logger del contexto (request_id, user_id, ...).
func Log(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(event, append(fields, zap.String("event", event))...)
}
