package usecase

import (
	"context"
	"fmt"
	"sort"

	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/domain/repository"
	"go-care-scheduling/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// AvailabilityViolation is a caregiver whose availability flag disagrees with the
// appointments that reserve them.
type AvailabilityViolation struct {
	CaregiverID  uuid.UUID   `json:"caregiver_id"`
	Available    bool        `json:"available"`
	Reservations []uuid.UUID `json:"reservations"`
	Reason       string      `json:"reason"`
}

// FindAvailabilityViolations checks that every caregiver is unavailable exactly when one
// approved or in-progress appointment reserves them.
func FindAvailabilityViolations(caregivers []entity.Caregiver, appointments []entity.Appointment) []AvailabilityViolation {
	reserving := make(map[uuid.UUID][]uuid.UUID)
	for _, a := range appointments {
		if a.Status.HoldsReservation() && a.HasCaregiver() {
			reserving[*a.CaregiverID] = append(reserving[*a.CaregiverID], a.ID)
		}
	}

	var violations []AvailabilityViolation
	for _, c := range caregivers {
		held := reserving[c.ID]
		var reason string
		switch {
		case len(held) > 1:
			reason = fmt.Sprintf("reserved by %d appointments", len(held))
		case len(held) == 1 && c.Available:
			reason = "reserved but marked available"
		case len(held) == 0 && !c.Available:
			reason = "unavailable without a reservation"
		default:
			continue
		}
		violations = append(violations, AvailabilityViolation{
			CaregiverID:  c.ID,
			Available:    c.Available,
			Reservations: held,
			Reason:       reason,
		})
	}

	sort.Slice(violations, func(i, j int) bool {
		return violations[i].CaregiverID.String() < violations[j].CaregiverID.String()
	})
	return violations
}

type AvailabilityUsecase interface {
	CheckAvailability(ctx context.Context) ([]AvailabilityViolation, error)
}

type availabilityUsecase struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	caregiverRepo   repository.CaregiverRepository
}

func NewAvailabilityUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	caregiverRepo repository.CaregiverRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		transactor:      transactor,
		log:             log,
		appointmentRepo: appointmentRepo,
		caregiverRepo:   caregiverRepo,
	}
}

func (u *availabilityUsecase) CheckAvailability(ctx context.Context) ([]AvailabilityViolation, error) {
	var (
		caregivers   []entity.Caregiver
		appointments []entity.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		caregivers, err = u.caregiverRepo.FindAll(u.transactor.Conn(gctx))
		return err
	})
	g.Go(func() error {
		var err error
		appointments, err = u.appointmentRepo.FindAll(u.transactor.Conn(gctx))
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load availability data: %+v", err)
		return nil, apperror.Storage(err)
	}

	violations := FindAvailabilityViolations(caregivers, appointments)
	if len(violations) > 0 {
		u.log.Warnf("Found %d caregiver availability violations", len(violations))
	}
	return violations, nil
}
