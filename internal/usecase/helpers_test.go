package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/repository/memory"
	"go-care-scheduling/internal/service"
	"go-care-scheduling/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// fixedNow is 2025-05-30 10:00 UTC, two days before the usual test appointment.
var fixedNow = time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []service.Notification
}

func (d *recordingDispatcher) Dispatch(n service.Notification) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return true
}

func (d *recordingDispatcher) events() []service.NotificationEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]service.NotificationEvent, 0, len(d.sent))
	for _, n := range d.sent {
		out = append(out, n.Event)
	}
	return out
}

type fixture struct {
	store        *memory.Store
	metrics      *metrics.Metrics
	notifier     *recordingDispatcher
	appointments AppointmentUsecase
	directory    DirectoryUsecase
	audit        AuditLogUsecase
	analytics    AnalyticsUsecase
	availability AvailabilityUsecase
	admin        entity.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	log := testLogger()
	m := metrics.NewTestMetrics()
	notifier := &recordingDispatcher{}
	auditService := service.NewAuditService(store, log, store.AuditLogs(), m)
	now := func() time.Time { return fixedNow }

	f := &fixture{
		store:    store,
		metrics:  m,
		notifier: notifier,
		appointments: NewAppointmentUsecase(store, log, store.Appointments(), store.Caregivers(), store.Patients(),
			service.NewNoopCaregiverLocker(), auditService, notifier, m, time.UTC, now),
		directory: NewDirectoryUsecase(store, log, store.Patients(), store.Caregivers(), store.Admins(),
			store.Appointments(), auditService),
		audit:        NewAuditLogUsecase(store, log, store.AuditLogs(), time.UTC),
		analytics:    NewAnalyticsUsecase(store, log, store.Appointments(), store.Caregivers(), store.Patients(), time.UTC, now),
		availability: NewAvailabilityUsecase(store, log, store.Appointments(), store.Caregivers()),
	}

	admin := &entity.Admin{FirstName: "Ada", LastName: "Admin", Email: "admin@clinic.test"}
	require.NoError(t, store.Admins().Create(nil, admin))
	f.admin = entity.Actor{ID: admin.ID, Role: entity.RoleAdmin}
	return f
}

func (f *fixture) addPatient(t *testing.T, email string) entity.Actor {
	t.Helper()
	p := &entity.Patient{
		FirstName:   "Pat",
		LastName:    "Ient",
		Email:       email,
		PhoneNumber: "555-0100",
		Gender:      entity.GenderFemale,
		DateOfBirth: time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.store.Patients().Create(nil, p))
	return entity.Actor{ID: p.ID, Role: entity.RolePatient}
}

func (f *fixture) addCaregiver(t *testing.T, email, department string) entity.Actor {
	t.Helper()
	c := &entity.Caregiver{
		FirstName:   "Cara",
		LastName:    "Giver",
		Email:       email,
		PhoneNumber: "555-0200",
		Department:  department,
		Available:   true,
	}
	require.NoError(t, f.store.Caregivers().Create(nil, c))
	return entity.Actor{ID: c.ID, Role: entity.RoleCaregiver}
}

func (f *fixture) caregiver(t *testing.T, id uuid.UUID) *entity.Caregiver {
	t.Helper()
	c, err := f.store.Caregivers().FindByID(nil, id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func (f *fixture) patient(t *testing.T, id uuid.UUID) *entity.Patient {
	t.Helper()
	p, err := f.store.Patients().FindByID(nil, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// requireConsistent asserts that caregiver availability matches the reservations.
func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	violations, err := f.availability.CheckAvailability(context.Background())
	require.NoError(t, err)
	require.Empty(t, violations)
}
