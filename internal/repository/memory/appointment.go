package memory

import (
	"fmt"
	"strings"
	"time"

	"go-care-scheduling/internal/domain/entity"
	domainRepo "go-care-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errPatientMissing = fmt.Errorf("appointments_patient_id: %w", domainRepo.ErrForeignKey)

type appointmentRepository struct {
	store *Store
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return r.store.write(db, func(st *state) error {
		if _, ok := st.patients[appointment.PatientID]; !ok {
			return errPatientMissing
		}
		if appointment.ID == uuid.Nil {
			appointment.ID = uuid.New()
		}
		now := time.Now()
		appointment.CreatedAt = now
		appointment.UpdatedAt = now
		stored := *appointment
		stored.Patient = nil
		stored.Caregiver = nil
		st.appointments[appointment.ID] = stored
		return nil
	})
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var found *entity.Appointment
	r.store.read(db, func(st *state) {
		if a, ok := st.appointments[id]; ok {
			a = withRelations(st, a)
			found = &a
		}
	})
	return found, nil
}

func (r *appointmentRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var found *entity.Appointment
	r.store.read(db, func(st *state) {
		if a, ok := st.appointments[id]; ok {
			found = &a
		}
	})
	return found, nil
}

func (r *appointmentRepository) List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	var matched []entity.Appointment
	r.store.read(db, func(st *state) {
		all := sortedValues(st.appointments, func(a, b entity.Appointment) bool {
			return a.CreatedAt.After(b.CreatedAt)
		})
		for _, a := range all {
			if !matchesAppointment(a, filter) {
				continue
			}
			matched = append(matched, withRelations(st, a))
		}
	})
	return paginate(matched, filter.Pagination), int64(len(matched)), nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	var out []entity.Appointment
	r.store.read(db, func(st *state) {
		all := sortedValues(st.appointments, func(a, b entity.Appointment) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		})
		for _, a := range all {
			out = append(out, withRelations(st, a))
		}
	})
	return out, nil
}

func (r *appointmentRepository) UpdateFrom(db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	var affected int64
	err := r.store.write(db, func(st *state) error {
		current, ok := st.appointments[appointment.ID]
		if !ok || current.Status != from {
			return nil
		}
		current.CaregiverID = appointment.CaregiverID
		current.Status = appointment.Status
		current.AppointmentDate = appointment.AppointmentDate
		current.AppointmentTime = appointment.AppointmentTime
		current.ApprovedAt = appointment.ApprovedAt
		current.StartTime = appointment.StartTime
		current.EndTime = appointment.EndTime
		current.Notes = appointment.Notes
		current.UpdatedAt = time.Now()
		st.appointments[appointment.ID] = current
		affected = 1
		return nil
	})
	return affected, err
}

func (r *appointmentRepository) CountReservingByCaregiver(db *gorm.DB, caregiverID uuid.UUID) (int64, error) {
	var count int64
	r.store.read(db, func(st *state) {
		for _, a := range st.appointments {
			if a.IsAttendedBy(caregiverID) && a.Status.HoldsReservation() {
				count++
			}
		}
	})
	return count, nil
}

func matchesAppointment(a entity.Appointment, f entity.AppointmentFilter) bool {
	if f.PatientID != nil && a.PatientID != *f.PatientID {
		return false
	}
	if f.CaregiverID != nil && !a.IsAttendedBy(*f.CaregiverID) {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.Department != "" && !strings.EqualFold(a.Department, f.Department) {
		return false
	}
	return true
}

func withRelations(st *state, a entity.Appointment) entity.Appointment {
	if p, ok := st.patients[a.PatientID]; ok {
		p = clonePatient(p)
		a.Patient = &p
	}
	if a.CaregiverID != nil {
		if c, ok := st.caregivers[*a.CaregiverID]; ok {
			a.Caregiver = &c
		}
	}
	return a
}
