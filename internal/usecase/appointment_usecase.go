package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-care-scheduling/internal/converter"
	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/domain/repository"
	"go-care-scheduling/internal/service"
	"go-care-scheduling/pkg/apperror"
	"go-care-scheduling/pkg/metrics"
	"go-care-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Clock returns the current time. Every operation reads it once.
type Clock func() time.Time

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ApproveAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.ApproveAppointmentRequest) (*dto.AppointmentResponse, error)
	ReassignCaregiver(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.ReassignCaregiverRequest) (*dto.AppointmentResponse, error)
	StartAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, actor entity.Actor, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	caregiverRepo   repository.CaregiverRepository
	patientRepo     repository.PatientRepository
	locker          service.CaregiverLocker
	auditService    service.AuditService
	notifier        service.NotificationDispatcher
	metrics         *metrics.Metrics
	location        *time.Location
	now             Clock
}

func NewAppointmentUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	caregiverRepo repository.CaregiverRepository,
	patientRepo repository.PatientRepository,
	locker service.CaregiverLocker,
	auditService service.AuditService,
	notifier service.NotificationDispatcher,
	m *metrics.Metrics,
	location *time.Location,
	now Clock,
) AppointmentUsecase {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &appointmentUsecase{
		transactor:      transactor,
		log:             log,
		appointmentRepo: appointmentRepo,
		caregiverRepo:   caregiverRepo,
		patientRepo:     patientRepo,
		locker:          locker,
		auditService:    auditService,
		notifier:        notifier,
		metrics:         m,
		location:        location,
		now:             now,
	}
}

// CreateAppointment books a pending appointment.
//
// Patients book for themselves; caregivers and admins must name the patient. A
// caregiver who books is attached to the appointment without being reserved:
// reservation only happens on approval.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	now := u.now()

	appointment, err := u.execute(ctx, operation{
		actor:  actor,
		action: entity.AuditActionAppointmentCreate,
		apply: func(tx *gorm.DB) (*outcome, error) {
			patientID, err := u.resolvePatient(actor, req.PatientID)
			if err != nil {
				return nil, err
			}

			department := strings.TrimSpace(req.Department)
			if department == "" {
				return nil, apperror.Validation("department is required")
			}

			requestedDate, requestedTime, at, err := u.parseSchedule(req.RequestedDate, req.RequestedTime)
			if err != nil {
				return nil, err
			}
			if !at.After(now) {
				return nil, apperror.InvalidSchedule("requested date and time must be in the future", nil)
			}

			patient, err := u.findPatient(tx, patientID)
			if err != nil {
				return nil, err
			}

			appointment := &entity.Appointment{
				ID:            uuid.New(),
				PatientID:     patientID,
				Department:    department,
				RequestedDate: requestedDate,
				RequestedTime: requestedTime,
				Status:        entity.AppointmentStatusPending,
				BookedByID:    actor.ID,
				BookedByRole:  actor.Role,
				Notes:         strings.TrimSpace(req.Notes),
			}

			var caregiver *entity.Caregiver
			if actor.IsCaregiver() {
				if caregiver, err = u.findCaregiver(tx, actor.ID); err != nil {
					return nil, err
				}
				appointment.CaregiverID = &caregiver.ID
			}

			if err := u.appointmentRepo.Create(tx, appointment); err != nil {
				if isForeignKeyError(err, "patient") {
					return nil, apperror.NotFound("patient")
				}
				return nil, err
			}

			affected, err := u.patientRepo.AppendAppointment(tx, patientID, appointment.ID)
			if err != nil {
				return nil, err
			}
			if affected == 0 {
				return nil, apperror.NotFound("patient")
			}

			appointment.Patient = patient
			appointment.Caregiver = caregiver
			return &outcome{
				appointment: appointment,
				description: fmt.Sprintf("Appointment requested in %s for %s %s", department, req.RequestedDate, requestedTime),
				newValue:    snapshot(appointment),
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ApproveAppointment confirms a pending appointment and reserves its caregiver.
func (u *appointmentUsecase) ApproveAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.ApproveAppointmentRequest) (*dto.AppointmentResponse, error) {
	now := u.now()

	requested, parseErr := optionalUUID(req.CaregiverID, "caregiver_id")

	appointment, err := u.execute(ctx, operation{
		actor:         actor,
		action:        entity.AuditActionAppointmentApprove,
		appointmentID: &appointmentID,
		lockIDs: func(ctx context.Context) ([]uuid.UUID, error) {
			if parseErr != nil {
				return nil, parseErr
			}
			if !actor.IsAdmin() {
				return nil, apperror.Forbidden("only admins can approve appointments")
			}
			current, err := u.appointmentRepo.FindByID(u.transactor.Conn(ctx), appointmentID)
			if err != nil {
				return nil, err
			}
			if current == nil {
				return nil, apperror.NotFound("appointment")
			}
			if id := approvalCaregiver(current, requested); id != nil {
				return []uuid.UUID{*id}, nil
			}
			return nil, nil
		},
		apply: func(tx *gorm.DB) (*outcome, error) {
			appointment, err := u.lockForTransition(tx, appointmentID, entity.AppointmentStatusApproved)
			if err != nil {
				return nil, err
			}
			old := snapshot(appointment)

			caregiverID := approvalCaregiver(appointment, requested)
			if caregiverID == nil {
				return nil, apperror.Validation("caregiver_id is required when no caregiver is attached")
			}
			caregiver, err := u.findCaregiver(tx, *caregiverID)
			if err != nil {
				return nil, err
			}

			date := req.AppointmentDate
			if date == "" {
				date = appointment.RequestedDate.Format(validator.DateLayout)
			}
			clock := req.AppointmentTime
			if clock == "" {
				clock = appointment.RequestedTime
			}
			confirmedDate, confirmedTime, _, err := u.parseSchedule(date, clock)
			if err != nil {
				return nil, err
			}

			if err := u.reserve(tx, caregiver.ID); err != nil {
				return nil, err
			}
			caregiver.Available = false

			appointment.CaregiverID = &caregiver.ID
			appointment.Status = entity.AppointmentStatusApproved
			appointment.AppointmentDate = &confirmedDate
			appointment.AppointmentTime = confirmedTime
			appointment.ApprovedAt = &now
			if notes := strings.TrimSpace(req.Notes); notes != "" {
				appointment.Notes = notes
			}
			if err := u.save(tx, appointment, entity.AppointmentStatusPending); err != nil {
				return nil, err
			}

			patient, err := u.findPatient(tx, appointment.PatientID)
			if err != nil {
				return nil, err
			}
			appointment.Patient = patient
			appointment.Caregiver = caregiver

			return &outcome{
				appointment: appointment,
				description: fmt.Sprintf("Approved appointment with caregiver %s on %s %s", caregiver.FullName(), date, confirmedTime),
				oldValue:    old,
				newValue:    snapshot(appointment),
				notification: &service.Notification{
					Event:       service.EventAppointmentApproved,
					Appointment: *appointment,
					Patient:     patient,
					Caregiver:   caregiver,
				},
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ReassignCaregiver replaces the caregiver of a pending or approved appointment.
//
// On a pending appointment the caregiver is only nominated: nothing is reserved yet.
// On an approved appointment the previous caregiver is released and the new one
// reserved in the same transaction.
func (u *appointmentUsecase) ReassignCaregiver(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.ReassignCaregiverRequest) (*dto.AppointmentResponse, error) {
	newID, parseErr := uuid.Parse(req.CaregiverID)

	appointment, err := u.execute(ctx, operation{
		actor:         actor,
		action:        entity.AuditActionAppointmentReassign,
		appointmentID: &appointmentID,
		lockIDs: func(ctx context.Context) ([]uuid.UUID, error) {
			if parseErr != nil {
				return nil, apperror.Validation("caregiver_id must be a valid UUID")
			}
			if !actor.IsAdmin() {
				return nil, apperror.Forbidden("only admins can reassign caregivers")
			}
			current, err := u.appointmentRepo.FindByID(u.transactor.Conn(ctx), appointmentID)
			if err != nil {
				return nil, err
			}
			if current == nil {
				return nil, apperror.NotFound("appointment")
			}
			ids := []uuid.UUID{newID}
			if current.Status.HoldsReservation() && current.HasCaregiver() {
				ids = append(ids, *current.CaregiverID)
			}
			return ids, nil
		},
		apply: func(tx *gorm.DB) (*outcome, error) {
			appointment, err := u.appointmentRepo.FindByIDForUpdate(tx, appointmentID)
			if err != nil {
				return nil, err
			}
			if appointment == nil {
				return nil, apperror.NotFound("appointment")
			}
			if !appointment.Status.AllowsReassignment() {
				return nil, apperror.InvalidTransition(fmt.Sprintf("cannot reassign caregiver of a %s appointment", appointment.Status))
			}
			if appointment.IsAttendedBy(newID) {
				return nil, apperror.Validation("caregiver is already assigned to this appointment")
			}
			old := snapshot(appointment)

			caregiver, err := u.findCaregiver(tx, newID)
			if err != nil {
				return nil, err
			}

			var previous *entity.Caregiver
			if appointment.HasCaregiver() {
				if previous, err = u.caregiverRepo.FindByID(tx, *appointment.CaregiverID); err != nil {
					return nil, err
				}
			}

			status := appointment.Status
			if status.HoldsReservation() {
				if previous != nil {
					if err := u.caregiverRepo.Release(tx, previous.ID); err != nil {
						return nil, err
					}
					previous.Available = true
				}
				if err := u.reserve(tx, caregiver.ID); err != nil {
					return nil, err
				}
				caregiver.Available = false
			} else if !caregiver.Available {
				return nil, apperror.CaregiverUnavailable(fmt.Sprintf("caregiver %s is not available", caregiver.ID))
			}

			appointment.CaregiverID = &caregiver.ID
			if err := u.save(tx, appointment, status); err != nil {
				return nil, err
			}

			patient, err := u.findPatient(tx, appointment.PatientID)
			if err != nil {
				return nil, err
			}
			appointment.Patient = patient
			appointment.Caregiver = caregiver

			return &outcome{
				appointment: appointment,
				description: fmt.Sprintf("Reassigned caregiver %s to %s appointment", caregiver.FullName(), status),
				oldValue:    old,
				newValue:    snapshot(appointment),
				notification: &service.Notification{
					Event:             service.EventCaregiverReassigned,
					Appointment:       *appointment,
					Patient:           patient,
					Caregiver:         caregiver,
					PreviousCaregiver: previous,
				},
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// StartAppointment is called by the attending caregiver when the visit begins.
func (u *appointmentUsecase) StartAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	now := u.now()

	appointment, err := u.execute(ctx, operation{
		actor:         actor,
		action:        entity.AuditActionAppointmentStart,
		appointmentID: &appointmentID,
		apply: func(tx *gorm.DB) (*outcome, error) {
			appointment, err := u.lockAttended(tx, actor, appointmentID, entity.AppointmentStatusInProgress)
			if err != nil {
				return nil, err
			}
			old := snapshot(appointment)

			// Already reserved on approval; repeating it is harmless.
			if err := u.caregiverRepo.MarkUnavailable(tx, *appointment.CaregiverID); err != nil {
				return nil, err
			}

			appointment.Status = entity.AppointmentStatusInProgress
			appointment.StartTime = &now
			if err := u.save(tx, appointment, entity.AppointmentStatusApproved); err != nil {
				return nil, err
			}

			return &outcome{
				appointment: appointment,
				description: "Caregiver started the appointment",
				oldValue:    old,
				newValue:    snapshot(appointment),
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// CompleteAppointment closes an in-progress appointment, frees the caregiver and counts
// one prescription for the patient. A second completion fails with an invalid
// transition, so the counter is incremented once.
func (u *appointmentUsecase) CompleteAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error) {
	now := u.now()

	appointment, err := u.execute(ctx, operation{
		actor:         actor,
		action:        entity.AuditActionAppointmentComplete,
		appointmentID: &appointmentID,
		apply: func(tx *gorm.DB) (*outcome, error) {
			appointment, err := u.lockAttended(tx, actor, appointmentID, entity.AppointmentStatusCompleted)
			if err != nil {
				return nil, err
			}
			old := snapshot(appointment)

			end := now
			if req != nil && req.EndTime != nil {
				end = *req.EndTime
			}
			if appointment.StartTime != nil && end.Before(*appointment.StartTime) {
				return nil, apperror.InvalidSchedule("end time is before the start time", nil)
			}

			appointment.Status = entity.AppointmentStatusCompleted
			appointment.EndTime = &end
			if req != nil {
				if notes := strings.TrimSpace(req.Notes); notes != "" {
					appointment.Notes = notes
				}
			}
			if err := u.save(tx, appointment, entity.AppointmentStatusInProgress); err != nil {
				return nil, err
			}

			if err := u.caregiverRepo.Release(tx, *appointment.CaregiverID); err != nil {
				return nil, err
			}

			affected, err := u.patientRepo.IncrementPrescriptions(tx, appointment.PatientID)
			if err != nil {
				return nil, err
			}
			if affected == 0 {
				return nil, apperror.NotFound("patient")
			}

			patient, err := u.findPatient(tx, appointment.PatientID)
			if err != nil {
				return nil, err
			}
			caregiver, err := u.findCaregiver(tx, *appointment.CaregiverID)
			if err != nil {
				return nil, err
			}
			appointment.Patient = patient
			appointment.Caregiver = caregiver

			return &outcome{
				appointment: appointment,
				description: "Caregiver completed the appointment",
				oldValue:    old,
				newValue:    snapshot(appointment),
				notification: &service.Notification{
					Event:       service.EventAppointmentCompleted,
					Appointment: *appointment,
					Patient:     patient,
					Caregiver:   caregiver,
				},
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment cancels any non-terminal appointment. The caregiver is released only
// when this appointment was holding the reservation.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.execute(ctx, operation{
		actor:         actor,
		action:        entity.AuditActionAppointmentCancel,
		appointmentID: &appointmentID,
		apply: func(tx *gorm.DB) (*outcome, error) {
			if !actor.IsAdmin() {
				return nil, apperror.Forbidden("only admins can cancel appointments")
			}
			appointment, err := u.lockForTransition(tx, appointmentID, entity.AppointmentStatusCanceled)
			if err != nil {
				return nil, err
			}
			old := snapshot(appointment)
			from := appointment.Status

			var caregiver *entity.Caregiver
			if appointment.HasCaregiver() {
				if caregiver, err = u.caregiverRepo.FindByID(tx, *appointment.CaregiverID); err != nil {
					return nil, err
				}
			}
			if from.HoldsReservation() && caregiver != nil {
				if err := u.caregiverRepo.Release(tx, caregiver.ID); err != nil {
					return nil, err
				}
				caregiver.Available = true
			}

			appointment.Status = entity.AppointmentStatusCanceled
			if err := u.save(tx, appointment, from); err != nil {
				return nil, err
			}

			patient, err := u.findPatient(tx, appointment.PatientID)
			if err != nil {
				return nil, err
			}
			appointment.Patient = patient
			appointment.Caregiver = caregiver

			description := fmt.Sprintf("Canceled %s appointment", from)
			if req != nil && strings.TrimSpace(req.Reason) != "" {
				description += ": " + strings.TrimSpace(req.Reason)
			}

			return &outcome{
				appointment: appointment,
				description: description,
				oldValue:    old,
				newValue:    snapshot(appointment),
				notification: &service.Notification{
					Event:       service.EventAppointmentCanceled,
					Appointment: *appointment,
					Patient:     patient,
					Caregiver:   caregiver,
				},
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.transactor.Conn(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, apperror.Storage(err)
	}
	if appointment == nil {
		return nil, apperror.NotFound("appointment")
	}

	switch {
	case actor.IsAdmin():
	case actor.IsPatient() && appointment.PatientID == actor.ID:
	case actor.IsCaregiver() && appointment.IsAttendedBy(actor.ID):
	default:
		return nil, apperror.Forbidden("appointment belongs to another account")
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListAppointments applies the filters within the caller's scope: patients see their own
// appointments and caregivers the ones they attend.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, actor entity.Actor, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	filter := entity.AppointmentFilter{
		Department: strings.TrimSpace(req.Department),
		Pagination: entity.Pagination{Page: req.Page, Limit: req.Limit}.Normalize(),
	}

	patientID, err := optionalUUID(req.PatientID, "patient_id")
	if err != nil {
		return nil, err
	}
	caregiverID, err := optionalUUID(req.CaregiverID, "caregiver_id")
	if err != nil {
		return nil, err
	}
	filter.PatientID = patientID
	filter.CaregiverID = caregiverID

	if req.Status != "" {
		status, err := entity.ParseAppointmentStatus(req.Status)
		if err != nil {
			return nil, apperror.Validation(err.Error())
		}
		filter.Status = &status
	}

	switch {
	case actor.IsAdmin():
	case actor.IsPatient():
		if filter.PatientID != nil && *filter.PatientID != actor.ID {
			return nil, apperror.Forbidden("patients can only list their own appointments")
		}
		filter.PatientID = actor.IDPtr()
	case actor.IsCaregiver():
		if filter.CaregiverID != nil && *filter.CaregiverID != actor.ID {
			return nil, apperror.Forbidden("caregivers can only list their own appointments")
		}
		filter.CaregiverID = actor.IDPtr()
	default:
		return nil, apperror.Forbidden("unknown role")
	}

	appointments, total, err := u.appointmentRepo.List(u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, apperror.Storage(err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}, nil
}

// lockAttended loads the appointment for a caregiver-driven transition. Only the
// attached caregiver may drive it.
func (u *appointmentUsecase) lockAttended(tx *gorm.DB, actor entity.Actor, appointmentID uuid.UUID, to entity.AppointmentStatus) (*entity.Appointment, error) {
	if !actor.IsCaregiver() {
		return nil, apperror.Forbidden("only the attending caregiver can update this appointment")
	}
	appointment, err := u.appointmentRepo.FindByIDForUpdate(tx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NotFound("appointment")
	}
	if !appointment.IsAttendedBy(actor.ID) {
		return nil, apperror.Forbidden("only the attending caregiver can update this appointment")
	}
	if !appointment.Status.CanTransitionTo(to) {
		return nil, apperror.InvalidTransition(fmt.Sprintf("cannot move appointment from %s to %s", appointment.Status, to))
	}
	return appointment, nil
}

func (u *appointmentUsecase) resolvePatient(actor entity.Actor, raw string) (uuid.UUID, error) {
	requested, err := optionalUUID(raw, "patient_id")
	if err != nil {
		return uuid.Nil, err
	}

	switch {
	case actor.IsPatient():
		if requested != nil && *requested != actor.ID {
			return uuid.Nil, apperror.Forbidden("patients can only book for themselves")
		}
		return actor.ID, nil
	case actor.IsCaregiver(), actor.IsAdmin():
		if requested == nil {
			return uuid.Nil, apperror.Validation("patient_id is required")
		}
		return *requested, nil
	default:
		return uuid.Nil, apperror.Forbidden("unknown role")
	}
}

// parseSchedule parses a date and an HH:MM time in the clinic timezone. It returns the
// civil date (midnight UTC, as stored in date columns), the normalized time and the
// instant they denote.
func (u *appointmentUsecase) parseSchedule(date, clock string) (time.Time, string, time.Time, error) {
	d, err := time.ParseInLocation(validator.DateLayout, strings.TrimSpace(date), u.location)
	if err != nil {
		return time.Time{}, "", time.Time{}, apperror.InvalidSchedule(fmt.Sprintf("date %q must be YYYY-MM-DD", date), err)
	}
	t, err := time.Parse(validator.TimeLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, "", time.Time{}, apperror.InvalidSchedule(fmt.Sprintf("time %q must be HH:MM", clock), err)
	}

	at := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, u.location)
	return civilDate(d), t.Format(validator.TimeLayout), at, nil
}

func approvalCaregiver(appointment *entity.Appointment, requested *uuid.UUID) *uuid.UUID {
	if requested != nil {
		return requested
	}
	if appointment.HasCaregiver() {
		id := *appointment.CaregiverID
		return &id
	}
	return nil
}

func optionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("%s must be a valid UUID", field))
	}
	return &id, nil
}

// civilDate drops the clock and zone of t, keeping its calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
