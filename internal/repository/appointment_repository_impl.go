package repository

import (
	"errors"

	"go-care-scheduling/internal/domain/entity"
	domainRepo "go-care-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Caregiver").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Caregiver").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	query := db.Model(&entity.Appointment{})

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.CaregiverID != nil {
		query = query.Where("caregiver_id = ?", *filter.CaregiverID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Department != "" {
		query = query.Where("department ILIKE ?", filter.Department)
	}

	// Reused for count and page queries.
	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Pagination.Normalize()
	var appointments []entity.Appointment
	err := query.
		Preload("Patient").Preload("Caregiver").
		Order("created_at DESC").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").Preload("Caregiver").Order("created_at ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateFrom atomically applies the transition ONLY if the status has not changed since
// it was read. Returns affected rows: 1 = success, 0 = lost the race.
func (r *appointmentRepository) UpdateFrom(db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, from).
		Select("caregiver_id", "status", "appointment_date", "appointment_time",
			"approved_at", "start_time", "end_time", "notes", "updated_at").
		Updates(appointment)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) CountReservingByCaregiver(db *gorm.DB, caregiverID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("caregiver_id = ? AND status IN ?", caregiverID,
			[]entity.AppointmentStatus{entity.AppointmentStatusApproved, entity.AppointmentStatusInProgress}).
		Count(&count).Error
	return count, err
}
