package repository

import (
	"errors"

	"go-care-scheduling/internal/domain/entity"
	domainRepo "go-care-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) List(db *gorm.DB, page entity.Pagination) ([]entity.Patient, int64, error) {
	var total int64
	if err := db.Model(&entity.Patient{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var patients []entity.Patient
	err := db.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset()).Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *patientRepository) FindAll(db *gorm.DB) ([]entity.Patient, error) {
	var patients []entity.Patient
	if err := db.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) AppendAppointment(db *gorm.DB, patientID, appointmentID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Patient{}).
		Where("id = ?", patientID).
		Update("appointment_ids", gorm.Expr("array_append(appointment_ids, ?)", appointmentID.String()))
	return result.RowsAffected, result.Error
}

func (r *patientRepository) IncrementPrescriptions(db *gorm.DB, patientID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Patient{}).
		Where("id = ?", patientID).
		Update("total_prescriptions", gorm.Expr("total_prescriptions + 1"))
	return result.RowsAffected, result.Error
}
