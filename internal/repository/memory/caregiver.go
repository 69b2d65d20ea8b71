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

var (
	errDuplicateEmail      = fmt.Errorf("email: %w", domainRepo.ErrDuplicateKey)
	errCaregiverReferenced = fmt.Errorf("appointments_caregiver_id: %w", domainRepo.ErrForeignKey)
)

type caregiverRepository struct {
	store *Store
}

func (r *caregiverRepository) Create(db *gorm.DB, caregiver *entity.Caregiver) error {
	return r.store.write(db, func(st *state) error {
		for _, c := range st.caregivers {
			if strings.EqualFold(c.Email, caregiver.Email) {
				return errDuplicateEmail
			}
		}
		if caregiver.ID == uuid.Nil {
			caregiver.ID = uuid.New()
		}
		now := time.Now()
		caregiver.CreatedAt = now
		caregiver.UpdatedAt = now
		st.caregivers[caregiver.ID] = *caregiver
		return nil
	})
}

func (r *caregiverRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Caregiver, error) {
	var found *entity.Caregiver
	r.store.read(db, func(st *state) {
		if c, ok := st.caregivers[id]; ok {
			found = &c
		}
	})
	return found, nil
}

func (r *caregiverRepository) List(db *gorm.DB, department string, page entity.Pagination) ([]entity.Caregiver, int64, error) {
	var matched []entity.Caregiver
	r.store.read(db, func(st *state) {
		all := sortedValues(st.caregivers, func(a, b entity.Caregiver) bool {
			if a.LastName != b.LastName {
				return a.LastName < b.LastName
			}
			return a.FirstName < b.FirstName
		})
		for _, c := range all {
			if department != "" && !strings.EqualFold(c.Department, department) {
				continue
			}
			matched = append(matched, c)
		}
	})
	return paginate(matched, page), int64(len(matched)), nil
}

func (r *caregiverRepository) FindAll(db *gorm.DB) ([]entity.Caregiver, error) {
	var out []entity.Caregiver
	r.store.read(db, func(st *state) {
		out = sortedValues(st.caregivers, func(a, b entity.Caregiver) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		})
	})
	return out, nil
}

func (r *caregiverRepository) UpdateProfile(db *gorm.DB, caregiver *entity.Caregiver) error {
	return r.store.write(db, func(st *state) error {
		current, ok := st.caregivers[caregiver.ID]
		if !ok {
			return nil
		}
		for id, c := range st.caregivers {
			if id != caregiver.ID && strings.EqualFold(c.Email, caregiver.Email) {
				return errDuplicateEmail
			}
		}
		current.FirstName = caregiver.FirstName
		current.LastName = caregiver.LastName
		current.Email = caregiver.Email
		current.PhoneNumber = caregiver.PhoneNumber
		current.Department = caregiver.Department
		current.UpdatedAt = time.Now()
		st.caregivers[caregiver.ID] = current
		return nil
	})
}

func (r *caregiverRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	var affected int64
	err := r.store.write(db, func(st *state) error {
		for _, a := range st.appointments {
			if a.IsAttendedBy(id) {
				return errCaregiverReferenced
			}
		}
		if _, ok := st.caregivers[id]; ok {
			delete(st.caregivers, id)
			affected = 1
		}
		return nil
	})
	return affected, err
}

func (r *caregiverRepository) Reserve(db *gorm.DB, id uuid.UUID) (int64, error) {
	var affected int64
	err := r.store.write(db, func(st *state) error {
		c, ok := st.caregivers[id]
		if !ok || !c.Available {
			return nil
		}
		c.Available = false
		st.caregivers[id] = c
		affected = 1
		return nil
	})
	return affected, err
}

func (r *caregiverRepository) Release(db *gorm.DB, id uuid.UUID) error {
	return r.setAvailable(db, id, true)
}

func (r *caregiverRepository) MarkUnavailable(db *gorm.DB, id uuid.UUID) error {
	return r.setAvailable(db, id, false)
}

func (r *caregiverRepository) setAvailable(db *gorm.DB, id uuid.UUID, available bool) error {
	return r.store.write(db, func(st *state) error {
		if c, ok := st.caregivers[id]; ok {
			c.Available = available
			st.caregivers[id] = c
		}
		return nil
	})
}
