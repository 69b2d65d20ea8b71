package repository

import (
	"go-care-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaregiverRepository interface {
	Create(db *gorm.DB, caregiver *entity.Caregiver) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Caregiver, error)
	List(db *gorm.DB, department string, page entity.Pagination) ([]entity.Caregiver, int64, error)
	FindAll(db *gorm.DB) ([]entity.Caregiver, error)
	// UpdateProfile writes profile fields only; availability is left untouched.
	UpdateProfile(db *gorm.DB, caregiver *entity.Caregiver) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	// Reserve flips available from true to false. Returns affected rows: 0 means the
	// caregiver was not available (or does not exist).
	Reserve(db *gorm.DB, id uuid.UUID) (int64, error)
	Release(db *gorm.DB, id uuid.UUID) error
	MarkUnavailable(db *gorm.DB, id uuid.UUID) error
}
