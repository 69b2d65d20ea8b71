package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateCaregiverRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string `json:"last_name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Department  string `json:"department" validate:"required,max=100"`
}

// UpdateCaregiverRequest edits profile fields. Availability is not editable here.
type UpdateCaregiverRequest struct {
	FirstName   string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName    string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	Department  string `json:"department" validate:"omitempty,max=100"`
}

// Response DTOs

type CaregiverResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Department  string    `json:"department"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CaregiverListResponse struct {
	Caregivers []CaregiverResponse `json:"caregivers"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// CaregiverSummary is embedded in appointment responses.
type CaregiverSummary struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
}
