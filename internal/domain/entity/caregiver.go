package entity

import (
	"time"

	"github.com/google/uuid"
)

// Caregiver represents a clinician who attends appointments.
// Available is owned by the appointment lifecycle and is never edited directly.
type Caregiver struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName   string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(20);not null" json:"phone_number"`
	Department  string    `gorm:"type:varchar(100);not null;index" json:"department"`
	Available   bool      `gorm:"not null;index" json:"available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Caregiver) TableName() string {
	return "caregivers"
}

func (c *Caregiver) FullName() string {
	return c.FirstName + " " + c.LastName
}
