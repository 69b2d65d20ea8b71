package entity

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents an administrator who approves and manages appointments
type Admin struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// Account is the role-tagged view of any identity record.
type Account struct {
	ID    uuid.UUID
	Role  Role
	Name  string
	Email string
}
