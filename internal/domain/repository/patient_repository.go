package repository

import (
	"go-care-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	List(db *gorm.DB, page entity.Pagination) ([]entity.Patient, int64, error)
	FindAll(db *gorm.DB) ([]entity.Patient, error)
	AppendAppointment(db *gorm.DB, patientID, appointmentID uuid.UUID) (int64, error)
	IncrementPrescriptions(db *gorm.DB, patientID uuid.UUID) (int64, error)
}
