package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAdminRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
}

type AdminResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountResponse is the role-tagged identity returned by the directory lookup.
type AccountResponse struct {
	ID    uuid.UUID `json:"id"`
	Role  string    `json:"role"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
