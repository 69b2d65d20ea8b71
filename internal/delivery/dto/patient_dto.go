package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterPatientRequest struct {
	FirstName      string `json:"first_name" validate:"required,min=2,max=100"`
	LastName       string `json:"last_name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phone_number" validate:"required,max=20"`
	Gender         string `json:"gender" validate:"required,oneof=male female"`
	DateOfBirth    string `json:"date_of_birth" validate:"required,date"`
	MedicalHistory string `json:"medical_history" validate:"omitempty,max=5000"`
}

// Response DTOs

type PatientResponse struct {
	ID                 uuid.UUID   `json:"id"`
	FirstName          string      `json:"first_name"`
	LastName           string      `json:"last_name"`
	Email              string      `json:"email"`
	PhoneNumber        string      `json:"phone_number"`
	Gender             string      `json:"gender"`
	DateOfBirth        string      `json:"date_of_birth"`
	MedicalHistory     string      `json:"medical_history,omitempty"`
	AppointmentIDs     []uuid.UUID `json:"appointment_ids"`
	TotalPrescriptions int         `json:"total_prescriptions"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// PatientSummary is embedded in appointment responses.
type PatientSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}
