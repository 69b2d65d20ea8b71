package memory

import (
	"strings"
	"time"

	"go-care-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type adminRepository struct {
	store *Store
}

func (r *adminRepository) Create(db *gorm.DB, admin *entity.Admin) error {
	return r.store.write(db, func(st *state) error {
		for _, a := range st.admins {
			if strings.EqualFold(a.Email, admin.Email) {
				return errDuplicateEmail
			}
		}
		if admin.ID == uuid.Nil {
			admin.ID = uuid.New()
		}
		now := time.Now()
		admin.CreatedAt = now
		admin.UpdatedAt = now
		st.admins[admin.ID] = *admin
		return nil
	})
}

func (r *adminRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Admin, error) {
	var found *entity.Admin
	r.store.read(db, func(st *state) {
		if a, ok := st.admins[id]; ok {
			found = &a
		}
	})
	return found, nil
}
