package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/service"
	"go-care-scheduling/pkg/apperror"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLocker fails every Lock with err, or grants it when err is nil.
type stubLocker struct {
	err error

	mu       sync.Mutex
	locked   [][]uuid.UUID
	released int
}

func (l *stubLocker) Lock(_ context.Context, ids ...uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = append(l.locked, ids)
	if l.err != nil {
		return nil, l.err
	}
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
	}, nil
}

// withLocker rebuilds the appointment usecase over the fixture's store with locker.
func (f *fixture) withLocker(locker service.CaregiverLocker) AppointmentUsecase {
	log := testLogger()
	audit := service.NewAuditService(f.store, log, f.store.AuditLogs(), f.metrics)
	return NewAppointmentUsecase(f.store, log, f.store.Appointments(), f.store.Caregivers(), f.store.Patients(),
		locker, audit, f.notifier, f.metrics, time.UTC, func() time.Time { return fixedNow })
}

func TestApproveWithHeldCaregiverLock(t *testing.T) {
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")
	booked := f.book(t, patient, "Cardiology")

	locker := &stubLocker{err: service.ErrCaregiverLocked}
	appointments := f.withLocker(locker)

	_, err := appointments.ApproveAppointment(context.Background(), f.admin, booked.ID, &dto.ApproveAppointmentRequest{
		CaregiverID: caregiver.ID.String(),
	})
	assert.Equal(t, apperror.KindCaregiverUnavailable, apperror.KindOf(err))
	require.Len(t, locker.locked, 1)
	assert.Equal(t, []uuid.UUID{caregiver.ID}, locker.locked[0])

	// Nothing moved.
	assert.True(t, f.caregiver(t, caregiver.ID).Available)
	got, err := f.appointments.GetAppointment(context.Background(), f.admin, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusPending), got.Status)
	assert.Nil(t, got.ApprovedAt)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationBlocked))
	failed := f.auditEntries(t, entity.AuditStatusFailed, entity.AuditActionAppointmentApprove)
	assert.Len(t, failed, 1)
	assert.Empty(t, f.auditEntries(t, entity.AuditStatusSuccess, entity.AuditActionAppointmentApprove))
	f.requireConsistent(t)
}

func TestApproveFallsBackWhenLockBackendFails(t *testing.T) {
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")
	first := f.book(t, patient, "Cardiology")
	second := f.book(t, patient, "Cardiology")

	appointments := f.withLocker(&stubLocker{err: errors.New("redis: connection refused")})

	approved, err := appointments.ApproveAppointment(context.Background(), f.admin, first.ID, &dto.ApproveAppointmentRequest{
		CaregiverID: caregiver.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusApproved), approved.Status)
	assert.False(t, f.caregiver(t, caregiver.ID).Available)

	// Without the lock the conditional reservation still refuses a second hold.
	_, err = appointments.ApproveAppointment(context.Background(), f.admin, second.ID, &dto.ApproveAppointmentRequest{
		CaregiverID: caregiver.ID.String(),
	})
	assert.Equal(t, apperror.KindCaregiverUnavailable, apperror.KindOf(err))
	f.requireConsistent(t)
}

func TestReassignLocksBothCaregiversAndReleases(t *testing.T) {
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	from := f.addCaregiver(t, "from@clinic.test", "Cardiology")
	to := f.addCaregiver(t, "to@clinic.test", "Cardiology")
	booked := f.book(t, patient, "Cardiology")
	f.approve(t, booked.ID, from.ID)

	locker := &stubLocker{}
	appointments := f.withLocker(locker)

	_, err := appointments.ReassignCaregiver(context.Background(), f.admin, booked.ID, &dto.ReassignCaregiverRequest{
		CaregiverID: to.ID.String(),
	})
	require.NoError(t, err)

	require.Len(t, locker.locked, 1)
	assert.ElementsMatch(t, []uuid.UUID{from.ID, to.ID}, locker.locked[0])
	assert.Equal(t, 1, locker.released)
	assert.True(t, f.caregiver(t, from.ID).Available)
	assert.False(t, f.caregiver(t, to.ID).Available)
	f.requireConsistent(t)
}
