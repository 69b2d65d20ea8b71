package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Patient represents a patient account and its appointment history
type Patient struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName      string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber    string    `gorm:"type:varchar(20);not null" json:"phone_number"`
	Gender         string    `gorm:"type:varchar(10);not null" json:"gender"`
	DateOfBirth    time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	MedicalHistory string    `gorm:"type:text" json:"medical_history,omitempty"`
	// AppointmentIDs is append-only, in booking order.
	AppointmentIDs     pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"appointment_ids"`
	TotalPrescriptions int            `gorm:"not null;default:0" json:"total_prescriptions"`
	CreatedAt          time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
)
