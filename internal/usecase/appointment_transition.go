package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/service"
	"go-care-scheduling/pkg/apperror"
	"go-care-scheduling/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// operation is one audited, state-changing step of the appointment lifecycle.
type operation struct {
	actor         entity.Actor
	action        string
	appointmentID *uuid.UUID

	// lockIDs returns the caregivers whose reservation the step may change. It runs
	// before the transaction; errors are reported like errors from apply.
	lockIDs func(ctx context.Context) ([]uuid.UUID, error)

	// apply runs inside the transaction. Any error rolls everything back.
	apply func(tx *gorm.DB) (*outcome, error)
}

type outcome struct {
	appointment  *entity.Appointment
	description  string
	oldValue     interface{}
	newValue     interface{}
	notification *service.Notification
}

// execute runs op as lock, transaction, audit entry, then notification. The audit entry
// is written exactly once, after the transaction and locks are released, whether op
// succeeded or not.
func (u *appointmentUsecase) execute(ctx context.Context, op operation) (*entity.Appointment, error) {
	start := time.Now()

	var result *outcome
	err := func() error {
		var ids []uuid.UUID
		if op.lockIDs != nil {
			var err error
			if ids, err = op.lockIDs(ctx); err != nil {
				return err
			}
		}
		return u.withCaregiverLocks(ctx, ids, func() error {
			return u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
				r, err := op.apply(tx)
				if err != nil {
					return err
				}
				result = r
				return nil
			})
		})
	}()

	u.metrics.TransitionLatency.WithLabelValues(op.action).Observe(time.Since(start).Seconds())

	if err != nil {
		appErr := apperror.From(err)
		if appErr.Kind == apperror.KindStorageFailure {
			u.log.Warnf("Failed to %s: %+v", op.action, err)
		}
		if appErr.Kind == apperror.KindCaregiverUnavailable {
			u.metrics.ReservationBlocked.Inc()
		}
		u.metrics.Transitions.WithLabelValues(op.action, string(appErr.Kind)).Inc()
		u.auditService.Record(ctx, service.AuditEvent{
			Actor:       op.actor,
			Action:      op.action,
			Entity:      entity.AuditEntityAppointment,
			EntityID:    op.appointmentID,
			Description: fmt.Sprintf("Failed %s: %s", op.action, appErr.Message),
			Err:         err,
		})
		return nil, appErr
	}

	u.metrics.Transitions.WithLabelValues(op.action, "success").Inc()
	id := result.appointment.ID
	u.auditService.Record(ctx, service.AuditEvent{
		Actor:       op.actor,
		Action:      op.action,
		Entity:      entity.AuditEntityAppointment,
		EntityID:    &id,
		Description: result.description,
		OldValue:    result.oldValue,
		NewValue:    result.newValue,
	})

	if result.notification != nil {
		u.notifier.Dispatch(*result.notification)
	}
	return result.appointment, nil
}

func (u *appointmentUsecase) withCaregiverLocks(ctx context.Context, ids []uuid.UUID, fn func() error) error {
	if len(ids) == 0 {
		return fn()
	}

	unlock, err := u.locker.Lock(ctx, ids...)
	switch {
	case errors.Is(err, service.ErrCaregiverLocked):
		return apperror.CaregiverUnavailable("caregiver is being reserved by another request")
	case err != nil:
		// The conditional reservation update still guards the invariant.
		u.log.Warnf("Failed to acquire caregiver lock, continuing without it: %+v", err)
		return fn()
	}
	defer unlock()

	return fn()
}

// lockForTransition loads the appointment under a row lock and checks that to is a
// legal next status.
func (u *appointmentUsecase) lockForTransition(tx *gorm.DB, id uuid.UUID, to entity.AppointmentStatus) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NotFound("appointment")
	}
	if !appointment.Status.CanTransitionTo(to) {
		return nil, apperror.InvalidTransition(fmt.Sprintf("cannot move appointment from %s to %s", appointment.Status, to))
	}
	return appointment, nil
}

// save writes appointment if its stored status is still from.
func (u *appointmentUsecase) save(tx *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) error {
	affected, err := u.appointmentRepo.UpdateFrom(tx, appointment, from)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.InvalidTransition(fmt.Sprintf("appointment is no longer %s", from))
	}
	return nil
}

// reserve takes the caregiver's availability. Zero affected rows means another
// appointment already holds it.
func (u *appointmentUsecase) reserve(tx *gorm.DB, caregiverID uuid.UUID) error {
	affected, err := u.caregiverRepo.Reserve(tx, caregiverID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.CaregiverUnavailable(fmt.Sprintf("caregiver %s is not available", caregiverID))
	}
	return nil
}

func (u *appointmentUsecase) findCaregiver(tx *gorm.DB, id uuid.UUID) (*entity.Caregiver, error) {
	caregiver, err := u.caregiverRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if caregiver == nil {
		return nil, apperror.NotFound("caregiver")
	}
	return caregiver, nil
}

func (u *appointmentUsecase) findPatient(tx *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NotFound("patient")
	}
	return patient, nil
}

func snapshot(a *entity.Appointment) map[string]interface{} {
	out := map[string]interface{}{
		"status": a.Status,
	}
	if a.CaregiverID != nil {
		out["caregiver_id"] = a.CaregiverID.String()
	}
	if a.AppointmentDate != nil {
		out["appointment_date"] = a.AppointmentDate.Format(validator.DateLayout)
		out["appointment_time"] = a.AppointmentTime
	}
	return out
}
