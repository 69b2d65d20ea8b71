// Package memory is an in-process implementation of the domain repositories. It backs
// the "memory" store driver and the usecase tests.
//
// Each transaction works on a private clone of the state that replaces the committed
// state on success and is discarded on error. Write transactions are serialized, so
// conditional updates behave as they do under row locks in Postgres.
package memory

import (
	"context"
	"sort"
	"sync"

	"go-care-scheduling/internal/domain/entity"
	domainRepo "go-care-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type state struct {
	appointments map[uuid.UUID]entity.Appointment
	caregivers   map[uuid.UUID]entity.Caregiver
	patients     map[uuid.UUID]entity.Patient
	admins       map[uuid.UUID]entity.Admin
}

func newState() *state {
	return &state{
		appointments: make(map[uuid.UUID]entity.Appointment),
		caregivers:   make(map[uuid.UUID]entity.Caregiver),
		patients:     make(map[uuid.UUID]entity.Patient),
		admins:       make(map[uuid.UUID]entity.Admin),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	for k, v := range s.caregivers {
		c.caregivers[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = clonePatient(v)
	}
	for k, v := range s.admins {
		c.admins[k] = v
	}
	return c
}

func clonePatient(p entity.Patient) entity.Patient {
	if p.AppointmentIDs != nil {
		ids := make([]string, len(p.AppointmentIDs))
		copy(ids, p.AppointmentIDs)
		p.AppointmentIDs = ids
	}
	return p
}

// Store holds the committed state and any in-flight transactions.
type Store struct {
	// txMu serializes writers: transactions and standalone writes.
	txMu sync.Mutex

	mu        sync.RWMutex
	committed *state
	txs       map[*gorm.DB]*state

	audit *auditLog
}

func NewStore() *Store {
	return &Store{
		committed: newState(),
		txs:       make(map[*gorm.DB]*state),
		audit:     &auditLog{},
	}
}

// Transactor returns the store as a domain Transactor.
func (s *Store) Transactor() domainRepo.Transactor {
	return s
}

// Conn returns nil: repositories given a nil handle read and write the committed state.
func (s *Store) Conn(_ context.Context) *gorm.DB {
	return nil
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	// The handle is only an identity token; it is never used to reach a database.
	handle := &gorm.DB{}

	s.mu.Lock()
	s.txs[handle] = s.committed.clone()
	s.mu.Unlock()

	err := fn(handle)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.committed = s.txs[handle]
	}
	delete(s.txs, handle)
	return err
}

// read runs fn against the state visible to db.
func (s *Store) read(db *gorm.DB, fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.txs[db]; ok {
		fn(st)
		return
	}
	fn(s.committed)
}

// write runs fn against the transaction state of db, or as its own transaction when
// db is not a transaction handle.
func (s *Store) write(db *gorm.DB, fn func(st *state) error) error {
	s.mu.RLock()
	st, inTx := s.txs[db]
	s.mu.RUnlock()
	if inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(st)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.committed.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.committed = next
	return nil
}

func (s *Store) Appointments() domainRepo.AppointmentRepository {
	return &appointmentRepository{store: s}
}

func (s *Store) Caregivers() domainRepo.CaregiverRepository {
	return &caregiverRepository{store: s}
}

func (s *Store) Patients() domainRepo.PatientRepository {
	return &patientRepository{store: s}
}

func (s *Store) Admins() domainRepo.AdminRepository {
	return &adminRepository{store: s}
}

func (s *Store) AuditLogs() domainRepo.AuditLogRepository {
	return &auditLogRepository{store: s}
}

func paginate[T any](items []T, page entity.Pagination) []T {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
