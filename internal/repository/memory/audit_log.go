package memory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go-care-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

// ErrAuditUnavailable is returned by Create while audit writes are failed on purpose.
var ErrAuditUnavailable = errors.New("audit log storage unavailable")

// auditLog lives outside the transactional state: entries are appended after the
// primary operation finishes, whether it committed or not.
type auditLog struct {
	mu      sync.RWMutex
	entries []entity.AuditLog
	nextID  int64
	failing bool
}

type auditLogRepository struct {
	store *Store
}

// FailAuditWrites makes every subsequent audit Create fail until reset with false.
func (s *Store) FailAuditWrites(fail bool) {
	s.audit.mu.Lock()
	defer s.audit.mu.Unlock()
	s.audit.failing = fail
}

func (r *auditLogRepository) Create(_ *gorm.DB, log *entity.AuditLog) error {
	a := r.store.audit
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failing {
		return ErrAuditUnavailable
	}
	a.nextID++
	log.ID = a.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	a.entries = append(a.entries, *log)
	return nil
}

func (r *auditLogRepository) FindByID(_ *gorm.DB, id int64) (*entity.AuditLog, error) {
	a := r.store.audit
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, e := range a.entries {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *auditLogRepository) List(_ *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	a := r.store.audit
	a.mu.RLock()
	var matched []entity.AuditLog
	for _, e := range a.entries {
		if matchesAudit(e, filter) {
			matched = append(matched, e)
		}
	}
	a.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, filter.Pagination), int64(len(matched)), nil
}

func matchesAudit(e entity.AuditLog, f entity.AuditLogFilter) bool {
	if f.ActorRole != "" && e.ActorRole != f.ActorRole {
		return false
	}
	if f.Entity != "" && e.Entity != f.Entity {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.StartDate != nil && e.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.CreatedAt.After(*f.EndDate) {
		return false
	}
	return true
}
