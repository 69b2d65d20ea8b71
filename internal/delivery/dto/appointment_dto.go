package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest is submitted by a patient for themselves, or by a caregiver
// or admin on behalf of a patient. Date and time formats are checked by the usecase so
// that a malformed schedule is reported as an invalid schedule.
type CreateAppointmentRequest struct {
	PatientID     string `json:"patient_id" validate:"omitempty,uuid"`
	Department    string `json:"department" validate:"required,max=100"`
	RequestedDate string `json:"requested_date" validate:"required"`
	RequestedTime string `json:"requested_time" validate:"required"`
	Notes         string `json:"notes" validate:"omitempty,max=1000"`
}

// ApproveAppointmentRequest confirms a pending appointment. Empty fields fall back to
// the attached caregiver and the requested schedule.
type ApproveAppointmentRequest struct {
	CaregiverID     string `json:"caregiver_id" validate:"omitempty,uuid"`
	AppointmentDate string `json:"appointment_date" validate:"omitempty"`
	AppointmentTime string `json:"appointment_time" validate:"omitempty"`
	Notes           string `json:"notes" validate:"omitempty,max=1000"`
}

type ReassignCaregiverRequest struct {
	CaregiverID string `json:"caregiver_id" validate:"required,uuid"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type CompleteAppointmentRequest struct {
	EndTime *time.Time `json:"end_time" validate:"omitempty"`
	Notes   string     `json:"notes" validate:"omitempty,max=1000"`
}

type AppointmentListRequest struct {
	PatientID   string `validate:"omitempty,uuid"`
	CaregiverID string `validate:"omitempty,uuid"`
	Status      string `validate:"omitempty,oneof=pending approved in-progress completed canceled"`
	Department  string `validate:"omitempty,max=100"`
	Page        int    `validate:"omitempty,min=1"`
	Limit       int    `validate:"omitempty,min=1,max=100"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID         `json:"id"`
	PatientID       uuid.UUID         `json:"patient_id"`
	CaregiverID     *uuid.UUID        `json:"caregiver_id,omitempty"`
	Department      string            `json:"department"`
	RequestedDate   string            `json:"requested_date"`
	RequestedTime   string            `json:"requested_time"`
	AppointmentDate string            `json:"appointment_date,omitempty"`
	AppointmentTime string            `json:"appointment_time,omitempty"`
	Status          string            `json:"status"`
	BookedByID      uuid.UUID         `json:"booked_by_id"`
	BookedByRole    string            `json:"booked_by_role"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
	StartTime       *time.Time        `json:"start_time,omitempty"`
	EndTime         *time.Time        `json:"end_time,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Patient         *PatientSummary   `json:"patient,omitempty"`
	Caregiver       *CaregiverSummary `json:"caregiver,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}
