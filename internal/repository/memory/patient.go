package memory

import (
	"strings"
	"time"

	"go-care-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	store *Store
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return r.store.write(db, func(st *state) error {
		for _, p := range st.patients {
			if strings.EqualFold(p.Email, patient.Email) {
				return errDuplicateEmail
			}
		}
		if patient.ID == uuid.Nil {
			patient.ID = uuid.New()
		}
		if patient.AppointmentIDs == nil {
			patient.AppointmentIDs = []string{}
		}
		now := time.Now()
		patient.CreatedAt = now
		patient.UpdatedAt = now
		st.patients[patient.ID] = clonePatient(*patient)
		return nil
	})
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var found *entity.Patient
	r.store.read(db, func(st *state) {
		if p, ok := st.patients[id]; ok {
			p = clonePatient(p)
			found = &p
		}
	})
	return found, nil
}

func (r *patientRepository) List(db *gorm.DB, page entity.Pagination) ([]entity.Patient, int64, error) {
	var all []entity.Patient
	r.store.read(db, func(st *state) {
		all = sortedValues(st.patients, func(a, b entity.Patient) bool {
			return a.CreatedAt.After(b.CreatedAt)
		})
		for i := range all {
			all[i] = clonePatient(all[i])
		}
	})
	return paginate(all, page), int64(len(all)), nil
}

func (r *patientRepository) FindAll(db *gorm.DB) ([]entity.Patient, error) {
	var out []entity.Patient
	r.store.read(db, func(st *state) {
		out = sortedValues(st.patients, func(a, b entity.Patient) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		})
		for i := range out {
			out[i] = clonePatient(out[i])
		}
	})
	return out, nil
}

func (r *patientRepository) AppendAppointment(db *gorm.DB, patientID, appointmentID uuid.UUID) (int64, error) {
	var affected int64
	err := r.store.write(db, func(st *state) error {
		p, ok := st.patients[patientID]
		if !ok {
			return nil
		}
		p.AppointmentIDs = append(p.AppointmentIDs, appointmentID.String())
		st.patients[patientID] = p
		affected = 1
		return nil
	})
	return affected, err
}

func (r *patientRepository) IncrementPrescriptions(db *gorm.DB, patientID uuid.UUID) (int64, error) {
	var affected int64
	err := r.store.write(db, func(st *state) error {
		p, ok := st.patients[patientID]
		if !ok {
			return nil
		}
		p.TotalPrescriptions++
		st.patients[patientID] = p
		affected = 1
		return nil
	})
	return affected, err
}
