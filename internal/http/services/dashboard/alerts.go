package dashboard

import (
	"fmt"
	"time"

	"github.com/dropDatabas3/elderwatch/internal/domain/repository"
)

// Severity ordena de menor a mayor: normal < warning < danger.
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

func (s Severity) rank() int {
	switch s {
	case SeverityDanger:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Umbrales de las alertas derivadas. HeartRateHigh es en bpm y se compara
// estrictamente mayor.
const (
	HeartRateHigh = 90
	StepsLow      = 2000
	SleepLowHours = 6.0
)

// Alert es una alerta derivada al leer; no se persiste.
type Alert struct {
	SampleID    string    `json:"sample_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	At          time.Time `json:"at"`
}

// DeriveAlerts evalúa cada muestra: caída = danger; pulso > 90, pasos < 2000
// o sueño < 6 h = warning. Conserva el orden de entrada.
func DeriveAlerts(samples []repository.HealthSample) []Alert {
	out := []Alert{}
	for _, s := range samples {
		if s.FallDetected {
			out = append(out, Alert{SampleID: s.ID, Type: "Fall Detected", Description: "A fall was detected", Severity: SeverityDanger, At: s.CreatedAt})
		}
		if s.HeartRate != nil && *s.HeartRate > HeartRateHigh {
			out = append(out, Alert{SampleID: s.ID, Type: "High Heart Rate", Description: fmt.Sprintf("Heart rate elevated to %d BPM", *s.HeartRate), Severity: SeverityWarning, At: s.CreatedAt})
		}
		if s.Steps != nil && *s.Steps < StepsLow {
			out = append(out, Alert{SampleID: s.ID, Type: "Low Activity", Description: fmt.Sprintf("Only %d steps recorded", *s.Steps), Severity: SeverityWarning, At: s.CreatedAt})
		}
		if s.SleepDuration != nil && *s.SleepDuration < SleepLowHours {
			out = append(out, Alert{SampleID: s.ID, Type: "Low Sleep", Description: fmt.Sprintf("Only %.1f hours of sleep detected", *s.SleepDuration), Severity: SeverityWarning, At: s.CreatedAt})
		}
	}
	return out
}

// Status es la severidad más alta entre las alertas.
func Status(alerts []Alert) Severity {
	worst := SeverityNormal
	for _, a := range alerts {
		if a.Severity.rank() > worst.rank() {
			worst = a.Severity
		}
	}
	return worst
}
