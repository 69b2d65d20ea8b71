package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "pending"
	AppointmentStatusApproved   AppointmentStatus = "approved"
	AppointmentStatusInProgress AppointmentStatus = "in-progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCanceled   AppointmentStatus = "canceled"
)

// AppointmentStatuses lists every status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusApproved,
	AppointmentStatusInProgress,
	AppointmentStatusCompleted,
	AppointmentStatusCanceled,
}

// ParseAppointmentStatus accepts only the known statuses.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	for _, st := range AppointmentStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// Next returns the statuses reachable from s in one step. Adding a status without a
// case here panics, so the table cannot silently fall out of date.
func (s AppointmentStatus) Next() []AppointmentStatus {
	switch s {
	case AppointmentStatusPending:
		return []AppointmentStatus{AppointmentStatusApproved, AppointmentStatusCanceled}
	case AppointmentStatusApproved:
		return []AppointmentStatus{AppointmentStatusInProgress, AppointmentStatusCanceled}
	case AppointmentStatusInProgress:
		return []AppointmentStatus{AppointmentStatusCompleted, AppointmentStatusCanceled}
	case AppointmentStatusCompleted, AppointmentStatusCanceled:
		return nil
	default:
		panic(fmt.Sprintf("appointment status %q has no transition entry", s))
	}
}

// CanTransitionTo reports whether to is a direct successor of s.
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, next := range s.Next() {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s AppointmentStatus) IsTerminal() bool {
	return len(s.Next()) == 0
}

// HoldsReservation reports whether an appointment in s keeps its caregiver reserved.
func (s AppointmentStatus) HoldsReservation() bool {
	return s == AppointmentStatusApproved || s == AppointmentStatusInProgress
}

// AllowsReassignment reports whether the attending caregiver may be replaced in s.
func (s AppointmentStatus) AllowsReassignment() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusApproved
}

// Appointment represents a care appointment between a patient and a caregiver
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	CaregiverID     *uuid.UUID        `gorm:"type:uuid;index" json:"caregiver_id,omitempty"`
	Department      string            `gorm:"type:varchar(100);not null;index" json:"department"`
	RequestedDate   time.Time         `gorm:"type:date;not null" json:"requested_date"`
	RequestedTime   string            `gorm:"type:varchar(5);not null" json:"requested_time"`
	AppointmentDate *time.Time        `gorm:"type:date;index" json:"appointment_date,omitempty"`
	AppointmentTime string            `gorm:"type:varchar(5)" json:"appointment_time,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	BookedByID      uuid.UUID         `gorm:"type:uuid;not null" json:"booked_by_id"`
	BookedByRole    Role              `gorm:"type:varchar(20);not null" json:"booked_by_role"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
	StartTime       *time.Time        `json:"start_time,omitempty"`
	EndTime         *time.Time        `json:"end_time,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient   *Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Caregiver *Caregiver `gorm:"foreignKey:CaregiverID" json:"caregiver,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// HasCaregiver reports whether a caregiver is attached
func (a *Appointment) HasCaregiver() bool {
	return a.CaregiverID != nil && *a.CaregiverID != uuid.Nil
}

// IsAttendedBy reports whether caregiverID is the attached caregiver
func (a *Appointment) IsAttendedBy(caregiverID uuid.UUID) bool {
	return a.HasCaregiver() && *a.CaregiverID == caregiverID
}
