package repository

import (
	"errors"

	"go-care-scheduling/internal/domain/entity"
	domainRepo "go-care-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type caregiverRepository struct{}

func NewCaregiverRepository() domainRepo.CaregiverRepository {
	return &caregiverRepository{}
}

func (r *caregiverRepository) Create(db *gorm.DB, caregiver *entity.Caregiver) error {
	return db.Create(caregiver).Error
}

func (r *caregiverRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Caregiver, error) {
	var caregiver entity.Caregiver
	err := db.Where("id = ?", id).First(&caregiver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &caregiver, nil
}

func (r *caregiverRepository) List(db *gorm.DB, department string, page entity.Pagination) ([]entity.Caregiver, int64, error) {
	query := db.Model(&entity.Caregiver{})
	if department != "" {
		query = query.Where("department ILIKE ?", department)
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var caregivers []entity.Caregiver
	err := query.Order("last_name ASC, first_name ASC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&caregivers).Error
	if err != nil {
		return nil, 0, err
	}
	return caregivers, total, nil
}

func (r *caregiverRepository) FindAll(db *gorm.DB) ([]entity.Caregiver, error) {
	var caregivers []entity.Caregiver
	if err := db.Find(&caregivers).Error; err != nil {
		return nil, err
	}
	return caregivers, nil
}

func (r *caregiverRepository) UpdateProfile(db *gorm.DB, caregiver *entity.Caregiver) error {
	return db.Model(&entity.Caregiver{}).
		Where("id = ?", caregiver.ID).
		Select("first_name", "last_name", "email", "phone_number", "department", "updated_at").
		Updates(caregiver).Error
}

func (r *caregiverRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Caregiver{})
	return result.RowsAffected, result.Error
}

// Reserve atomically marks the caregiver unavailable ONLY if it is currently available.
// Returns affected rows: 1 = reserved, 0 = already reserved (prevents double-booking race).
func (r *caregiverRepository) Reserve(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Caregiver{}).
		Where("id = ? AND available = ?", id, true).
		Update("available", false)
	return result.RowsAffected, result.Error
}

func (r *caregiverRepository) Release(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Caregiver{}).Where("id = ?", id).Update("available", true).Error
}

func (r *caregiverRepository) MarkUnavailable(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Caregiver{}).Where("id = ?", id).Update("available", false).Error
}
