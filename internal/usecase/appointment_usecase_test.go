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

func (f *fixture) book(t *testing.T, patient entity.Actor, department string) *dto.AppointmentResponse {
	t.Helper()
	res, err := f.appointments.CreateAppointment(context.Background(), patient, &dto.CreateAppointmentRequest{
		Department:    department,
		RequestedDate: "2025-06-01",
		RequestedTime: "09:00",
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) approve(t *testing.T, appointmentID, caregiverID uuid.UUID) *dto.AppointmentResponse {
	t.Helper()
	res, err := f.appointments.ApproveAppointment(context.Background(), f.admin, appointmentID, &dto.ApproveAppointmentRequest{
		CaregiverID: caregiverID.String(),
	})
	require.NoError(t, err)
	return res
}

// auditEntries returns the audit entries with the given status and action.
func (f *fixture) auditEntries(t *testing.T, status entity.AuditStatus, action string) []dto.AuditLogResponse {
	t.Helper()
	logs, err := f.audit.ListAuditLogs(context.Background(), &dto.AuditLogListRequest{
		Status: string(status),
		Limit:  100,
	})
	require.NoError(t, err)

	var out []dto.AuditLogResponse
	for _, l := range logs.Logs {
		if action == "" || l.Action == action {
			out = append(out, l)
		}
	}
	return out
}

func TestAppointmentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")

	// Two earlier visits already counted.
	_, err := f.store.Patients().IncrementPrescriptions(nil, patient.ID)
	require.NoError(t, err)
	_, err = f.store.Patients().IncrementPrescriptions(nil, patient.ID)
	require.NoError(t, err)

	booked := f.book(t, patient, "Cardiology")
	assert.Equal(t, string(entity.AppointmentStatusPending), booked.Status)
	assert.Nil(t, booked.CaregiverID)
	assert.Equal(t, "2025-06-01", booked.RequestedDate)
	assert.Equal(t, []string{booked.ID.String()}, []string(f.patient(t, patient.ID).AppointmentIDs))
	f.requireConsistent(t)

	approved := f.approve(t, booked.ID, caregiver.ID)
	assert.Equal(t, string(entity.AppointmentStatusApproved), approved.Status)
	assert.Equal(t, "2025-06-01", approved.AppointmentDate)
	assert.Equal(t, "09:00", approved.AppointmentTime)
	require.NotNil(t, approved.CaregiverID)
	assert.Equal(t, caregiver.ID, *approved.CaregiverID)
	require.NotNil(t, approved.Caregiver)
	assert.Equal(t, "Cara Giver", approved.Caregiver.FullName)
	require.NotNil(t, approved.ApprovedAt)
	assert.True(t, approved.ApprovedAt.Equal(fixedNow))
	assert.False(t, f.caregiver(t, caregiver.ID).Available)
	f.requireConsistent(t)

	approvals := f.auditEntries(t, entity.AuditStatusSuccess, entity.AuditActionAppointmentApprove)
	require.Len(t, approvals, 1)
	assert.Equal(t, string(entity.AuditEntityAppointment), approvals[0].Entity)
	require.NotNil(t, approvals[0].EntityID)
	assert.Equal(t, booked.ID, *approvals[0].EntityID)
	require.NotNil(t, approvals[0].ActorID)
	assert.Equal(t, f.admin.ID, *approvals[0].ActorID)

	started, err := f.appointments.StartAppointment(ctx, caregiver, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusInProgress), started.Status)
	require.NotNil(t, started.StartTime)
	assert.True(t, started.StartTime.Equal(fixedNow))
	f.requireConsistent(t)

	completed, err := f.appointments.CompleteAppointment(ctx, caregiver, booked.ID, &dto.CompleteAppointmentRequest{Notes: "Follow up in 3 months"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCompleted), completed.Status)
	assert.Equal(t, "Follow up in 3 months", completed.Notes)
	assert.True(t, f.caregiver(t, caregiver.ID).Available)
	assert.Equal(t, 3, f.patient(t, patient.ID).TotalPrescriptions)
	f.requireConsistent(t)

	assert.Equal(t, []service.NotificationEvent{service.EventAppointmentApproved, service.EventAppointmentCompleted}, f.notifier.events())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues(entity.AuditActionAppointmentComplete, "success")))
}

func TestCompleteTwiceCountsOnePrescription(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")

	booked := f.book(t, patient, "Cardiology")
	f.approve(t, booked.ID, caregiver.ID)
	_, err := f.appointments.StartAppointment(ctx, caregiver, booked.ID)
	require.NoError(t, err)
	_, err = f.appointments.CompleteAppointment(ctx, caregiver, booked.ID, nil)
	require.NoError(t, err)

	_, err = f.appointments.CompleteAppointment(ctx, caregiver, booked.ID, nil)
	assert.True(t, errors.Is(err, apperror.ErrInvalidTransition))
	assert.Equal(t, 1, f.patient(t, patient.ID).TotalPrescriptions)
	f.requireConsistent(t)
}

func TestCreateAppointmentRejectsPastSchedule(t *testing.T) {
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")

	cases := []struct{ date, clock string }{
		{"2025-05-29", "09:00"},
		{"2025-05-30", "09:59"},
		{"2025-05-30", "10:00"},
	}
	for _, tc := range cases {
		_, err := f.appointments.CreateAppointment(context.Background(), patient, &dto.CreateAppointmentRequest{
			Department:    "Cardiology",
			RequestedDate: tc.date,
			RequestedTime: tc.clock,
		})
		assert.Equal(t, apperror.KindInvalidSchedule, apperror.KindOf(err), "%s %s", tc.date, tc.clock)
	}

	p := f.patient(t, patient.ID)
	assert.Empty(t, p.AppointmentIDs)

	assert.Empty(t, f.auditEntries(t, entity.AuditStatusSuccess, ""))
	failed := f.auditEntries(t, entity.AuditStatusFailed, entity.AuditActionAppointmentCreate)
	assert.Len(t, failed, len(cases))
}

func TestCreateAppointmentValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	other := f.addPatient(t, "other@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")

	_, err := f.appointments.CreateAppointment(ctx, patient, &dto.CreateAppointmentRequest{
		PatientID: other.ID.String(), Department: "Cardiology", RequestedDate: "2025-06-01", RequestedTime: "09:00",
	})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.appointments.CreateAppointment(ctx, f.admin, &dto.CreateAppointmentRequest{
		Department: "Cardiology", RequestedDate: "2025-06-01", RequestedTime: "09:00",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.appointments.CreateAppointment(ctx, f.admin, &dto.CreateAppointmentRequest{
		PatientID: uuid.NewString(), Department: "Cardiology", RequestedDate: "2025-06-01", RequestedTime: "09:00",
	})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.appointments.CreateAppointment(ctx, patient, &dto.CreateAppointmentRequest{
		Department: "Cardiology", RequestedDate: "2025-06-01", RequestedTime: "9am",
	})
	assert.Equal(t, apperror.KindInvalidSchedule, apperror.KindOf(err))

	// A caregiver booking is attached to the appointment but not reserved.
	res, err := f.appointments.CreateAppointment(ctx, caregiver, &dto.CreateAppointmentRequest{
		PatientID: patient.ID.String(), Department: "Cardiology", RequestedDate: "2025-06-01", RequestedTime: "09:00",
	})
	require.NoError(t, err)
	require.NotNil(t, res.CaregiverID)
	assert.Equal(t, caregiver.ID, *res.CaregiverID)
	assert.Equal(t, string(entity.RoleCaregiver), res.BookedByRole)
	assert.True(t, f.caregiver(t, caregiver.ID).Available)
	f.requireConsistent(t)
}

func TestConcurrentApprovalsReserveCaregiverOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")

	const n = 8
	ids := make([]uuid.UUID, n)
	for i := range ids {
		patient := f.addPatient(t, uuid.NewString()+"@clinic.test")
		ids[i] = f.book(t, patient, "Cardiology").ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.appointments.ApproveAppointment(ctx, f.admin, ids[i], &dto.ApproveAppointmentRequest{
				CaregiverID: caregiver.ID.String(),
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.Equal(t, apperror.KindCaregiverUnavailable, apperror.KindOf(err))
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, float64(n-1), testutil.ToFloat64(f.metrics.ReservationBlocked))
	f.requireConsistent(t)
}

func TestApproveAppointmentOverridesSchedule(t *testing.T) {
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")
	booked := f.book(t, patient, "Cardiology")

	_, err := f.appointments.ApproveAppointment(context.Background(), f.admin, booked.ID, &dto.ApproveAppointmentRequest{
		CaregiverID: caregiver.ID.String(), AppointmentDate: "2025-06-02", AppointmentTime: "7:30",
	})
	require.NoError(t, err)

	got, err := f.appointments.GetAppointment(context.Background(), patient, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", got.AppointmentDate)
	assert.Equal(t, "07:30", got.AppointmentTime)
	assert.Equal(t, "2025-06-01", got.RequestedDate)
}

func TestApproveAppointmentFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")
	booked := f.book(t, patient, "Cardiology")

	_, err := f.appointments.ApproveAppointment(ctx, patient, booked.ID, &dto.ApproveAppointmentRequest{CaregiverID: caregiver.ID.String()})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.appointments.ApproveAppointment(ctx, f.admin, booked.ID, &dto.ApproveAppointmentRequest{})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.appointments.ApproveAppointment(ctx, f.admin, booked.ID, &dto.ApproveAppointmentRequest{CaregiverID: uuid.NewString()})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.appointments.ApproveAppointment(ctx, f.admin, uuid.New(), &dto.ApproveAppointmentRequest{CaregiverID: caregiver.ID.String()})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	f.approve(t, booked.ID, caregiver.ID)
	_, err = f.appointments.ApproveAppointment(ctx, f.admin, booked.ID, &dto.ApproveAppointmentRequest{CaregiverID: caregiver.ID.String()})
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))

	// Every failed attempt left an audit entry.
	logs, err := f.audit.ListAuditLogs(ctx, &dto.AuditLogListRequest{Status: string(entity.AuditStatusFailed)})
	require.NoError(t, err)
	assert.EqualValues(t, 5, logs.Total)
	for _, l := range logs.Logs {
		assert.Equal(t, entity.AuditActionAppointmentApprove, l.Action)
		assert.NotEmpty(t, l.ErrorDetail)
	}
	f.requireConsistent(t)
}

func TestReassignCaregiver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	first := f.addCaregiver(t, "first@clinic.test", "Cardiology")
	second := f.addCaregiver(t, "second@clinic.test", "Cardiology")
	third := f.addCaregiver(t, "third@clinic.test", "Cardiology")

	t.Run("pending only nominates", func(t *testing.T) {
		booked := f.book(t, patient, "Cardiology")
		res, err := f.appointments.ReassignCaregiver(ctx, f.admin, booked.ID, &dto.ReassignCaregiverRequest{CaregiverID: first.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, first.ID, *res.CaregiverID)
		assert.True(t, f.caregiver(t, first.ID).Available)
		f.requireConsistent(t)

		// Approving without a caregiver uses the nominated one.
		approved, err := f.appointments.ApproveAppointment(ctx, f.admin, booked.ID, &dto.ApproveAppointmentRequest{})
		require.NoError(t, err)
		assert.Equal(t, first.ID, *approved.CaregiverID)
		f.requireConsistent(t)

		before := len(f.auditEntries(t, entity.AuditStatusSuccess, entity.AuditActionAppointmentReassign))
		res, err = f.appointments.ReassignCaregiver(ctx, f.admin, booked.ID, &dto.ReassignCaregiverRequest{CaregiverID: second.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, second.ID, *res.CaregiverID)
		assert.True(t, f.caregiver(t, first.ID).Available)
		assert.False(t, f.caregiver(t, second.ID).Available)
		f.requireConsistent(t)

		reassigned := f.auditEntries(t, entity.AuditStatusSuccess, entity.AuditActionAppointmentReassign)
		require.Len(t, reassigned, before+1)
		require.NotNil(t, reassigned[0].EntityID)
		assert.Equal(t, booked.ID, *reassigned[0].EntityID)
	})

	t.Run("reserved caregiver is refused", func(t *testing.T) {
		booked := f.book(t, patient, "Cardiology")
		f.approve(t, booked.ID, third.ID)

		_, err := f.appointments.ReassignCaregiver(ctx, f.admin, booked.ID, &dto.ReassignCaregiverRequest{CaregiverID: second.ID.String()})
		assert.Equal(t, apperror.KindCaregiverUnavailable, apperror.KindOf(err))
		assert.False(t, f.caregiver(t, third.ID).Available)
		f.requireConsistent(t)

		_, err = f.appointments.ReassignCaregiver(ctx, f.admin, booked.ID, &dto.ReassignCaregiverRequest{CaregiverID: third.ID.String()})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("in progress cannot be reassigned", func(t *testing.T) {
		fresh := f.addCaregiver(t, "fresh@clinic.test", "Cardiology")
		booked := f.book(t, patient, "Cardiology")
		f.approve(t, booked.ID, fresh.ID)
		_, err := f.appointments.StartAppointment(ctx, fresh, booked.ID)
		require.NoError(t, err)

		_, err = f.appointments.ReassignCaregiver(ctx, f.admin, booked.ID, &dto.ReassignCaregiverRequest{CaregiverID: first.ID.String()})
		assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))
		f.requireConsistent(t)
	})

	assert.Contains(t, f.notifier.events(), service.EventCaregiverReassigned)
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")

	pending := f.book(t, patient, "Cardiology")
	res, err := f.appointments.CancelAppointment(ctx, f.admin, pending.ID, &dto.CancelAppointmentRequest{Reason: "patient request"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCanceled), res.Status)

	approved := f.book(t, patient, "Cardiology")
	f.approve(t, approved.ID, caregiver.ID)
	assert.False(t, f.caregiver(t, caregiver.ID).Available)

	_, err = f.appointments.CancelAppointment(ctx, patient, approved.ID, nil)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.appointments.CancelAppointment(ctx, f.admin, approved.ID, nil)
	require.NoError(t, err)
	assert.True(t, f.caregiver(t, caregiver.ID).Available)
	f.requireConsistent(t)

	_, err = f.appointments.CancelAppointment(ctx, f.admin, approved.ID, nil)
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))

	logs, err := f.audit.ListAuditLogs(ctx, &dto.AuditLogListRequest{Status: string(entity.AuditStatusSuccess), Entity: string(entity.AuditEntityAppointment)})
	require.NoError(t, err)
	var descriptions []string
	for _, l := range logs.Logs {
		descriptions = append(descriptions, l.Description)
	}
	assert.Contains(t, descriptions, "Canceled pending appointment: patient request")
}

func TestCaregiverTransitionsRequireAttendingCaregiver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")
	stranger := f.addCaregiver(t, "other@clinic.test", "Cardiology")

	booked := f.book(t, patient, "Cardiology")

	_, err := f.appointments.StartAppointment(ctx, caregiver, booked.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err), "no caregiver attached yet")

	f.approve(t, booked.ID, caregiver.ID)

	_, err = f.appointments.StartAppointment(ctx, stranger, booked.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	_, err = f.appointments.StartAppointment(ctx, f.admin, booked.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.appointments.CompleteAppointment(ctx, caregiver, booked.ID, nil)
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))

	_, err = f.appointments.StartAppointment(ctx, caregiver, booked.ID)
	require.NoError(t, err)

	early := fixedNow.Add(-time.Hour)
	_, err = f.appointments.CompleteAppointment(ctx, caregiver, booked.ID, &dto.CompleteAppointmentRequest{EndTime: &early})
	assert.Equal(t, apperror.KindInvalidSchedule, apperror.KindOf(err))
	f.requireConsistent(t)
}

func TestGetAndListAreScopedByRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.addPatient(t, "alice@clinic.test")
	bob := f.addPatient(t, "bob@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")

	a := f.book(t, alice, "Cardiology")
	f.book(t, bob, "Neurology")
	f.approve(t, a.ID, caregiver.ID)

	_, err := f.appointments.GetAppointment(ctx, bob, a.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	_, err = f.appointments.GetAppointment(ctx, caregiver, a.ID)
	assert.NoError(t, err)
	_, err = f.appointments.GetAppointment(ctx, f.admin, uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	all, err := f.appointments.ListAppointments(ctx, f.admin, &dto.AppointmentListRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	own, err := f.appointments.ListAppointments(ctx, bob, &dto.AppointmentListRequest{})
	require.NoError(t, err)
	require.Len(t, own.Appointments, 1)
	assert.Equal(t, bob.ID, own.Appointments[0].PatientID)

	_, err = f.appointments.ListAppointments(ctx, bob, &dto.AppointmentListRequest{PatientID: alice.ID.String()})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	attended, err := f.appointments.ListAppointments(ctx, caregiver, &dto.AppointmentListRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, attended.Total)

	neuro, err := f.appointments.ListAppointments(ctx, f.admin, &dto.AppointmentListRequest{Department: "neurology"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, neuro.Total)

	_, err = f.appointments.ListAppointments(ctx, f.admin, &dto.AppointmentListRequest{Status: "archived"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAuditWriteFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")

	f.store.FailAuditWrites(true)
	booked := f.book(t, patient, "Cardiology")
	f.store.FailAuditWrites(false)

	assert.Equal(t, string(entity.AppointmentStatusPending), booked.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuditWriteFailures))
}
