// Package patients contiene DTOs de los endpoints de pacientes.
package patients

import "time"

// CreatePatientRequest es el body de POST /v1/patients.
type CreatePatientRequest struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone,omitempty"`
	EmergencyContact *string `json:"emergencyContact,omitempty"`
}

// PatientResponse es el paciente creado. TempPassword se devuelve una sola vez.
type PatientResponse struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	Phone            *string `json:"phone"`
	EmergencyContact *string `json:"emergencyContact"`
	TempPassword     string  `json:"tempPassword"`
}

type CreatePatientResponse struct {
	Success bool            `json:"success"`
	Patient PatientResponse `json:"patient"`
}

// LinkedPatientResponse es un paciente vinculado al cuidador.
type LinkedPatientResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             *string   `json:"name"`
	Phone            *string   `json:"phone"`
	EmergencyContact *string   `json:"emergencyContact"`
	CreatedAt        time.Time `json:"createdAt"`
	LinkedAt         time.Time `json:"linkedAt"`
}

type ListPatientsResponse struct {
	Patients []LinkedPatientResponse `json:"patients"`
}

type ReconcileResponse struct {
	Checked  int      `json:"checked"`
	Repaired []string `json:"repaired"`
	Failed   []string `json:"failed"`
}
