// Package dashboard contiene DTOs de lectura de los dashboards.
package dashboard

import "time"

type SampleResponse struct {
	ID            string    `json:"id"`
	HeartRate     *int      `json:"heart_rate"`
	Steps         *int      `json:"steps"`
	SleepDuration *float64  `json:"sleep_duration"`
	FallDetected  bool      `json:"fall_detected"`
	CreatedAt     time.Time `json:"created_at"`
}

type AlertResponse struct {
	SampleID    string    `json:"sample_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	At          time.Time `json:"at"`
}

type SamplesResponse struct {
	UserID  string           `json:"user_id"`
	Status  string           `json:"status"`
	Samples []SampleResponse `json:"samples"`
	Alerts  []AlertResponse  `json:"alerts"`
}

type PatientOverviewResponse struct {
	PatientID string          `json:"patient_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	LinkedAt  time.Time       `json:"linked_at"`
	Status    string          `json:"status"`
	Latest    *SampleResponse `json:"latest"`
	Alerts    []AlertResponse `json:"alerts"`
}

type OverviewResponse struct {
	CaregiverID string                    `json:"caregiver_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Patients    []PatientOverviewResponse `json:"patients"`
}
