package repository

import (
	"go-care-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogRepository is append-only: there is no update or delete.
type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
	List(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error)
}
