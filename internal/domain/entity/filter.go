package entity

import (
	"time"

	"github.com/google/uuid"
)

// Pagination is a 1-based page request. Zero values mean "first page, default size".
type Pagination struct {
	Page  int
	Limit int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize clamps page and limit into valid ranges.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// AppointmentFilter is a domain-level filter for querying appointments.
// Nil fields are not applied.
type AppointmentFilter struct {
	PatientID   *uuid.UUID
	CaregiverID *uuid.UUID
	Status      *AppointmentStatus
	Department  string
	Pagination
}

// AuditLogFilter mirrors the audit log query parameters.
type AuditLogFilter struct {
	ActorRole string
	Entity    AuditEntity
	Status    AuditStatus
	StartDate *time.Time
	EndDate   *time.Time
	Pagination
}
