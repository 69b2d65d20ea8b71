package repository

import (
	"go-care-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	// UpdateFrom writes the mutable fields of appointment only if the stored status is
	// still from. Returns affected rows: 0 means the status moved underneath us.
	UpdateFrom(db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error)
	CountReservingByCaregiver(db *gorm.DB, caregiverID uuid.UUID) (int64, error)
}
