package dto

import (
	"time"

	"go-care-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type AuditLogListRequest struct {
	UserRole  string `validate:"omitempty,oneof=admin caregiver patient anonymous"`
	Entity    string `validate:"omitempty,oneof=admin appointment caregiver patient error"`
	Status    string `validate:"omitempty,oneof=success failed"`
	StartDate string `validate:"omitempty,date"`
	EndDate   string `validate:"omitempty,date"`
	Page      int    `validate:"omitempty,min=1"`
	Limit     int    `validate:"omitempty,min=1,max=100"`
}

// Response DTOs

type AuditLogResponse struct {
	ID          int64       `json:"id"`
	ActorID     *uuid.UUID  `json:"actor_id,omitempty"`
	ActorRole   string      `json:"actor_role"`
	Action      string      `json:"action"`
	Description string      `json:"description"`
	Entity      string      `json:"entity"`
	EntityID    *uuid.UUID  `json:"entity_id,omitempty"`
	Status      string      `json:"status"`
	ErrorDetail string      `json:"error_detail,omitempty"`
	Metadata    entity.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
