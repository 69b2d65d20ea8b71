// Package seed fills an empty store with fake accounts and appointments for local
// development. Everything goes through the usecases, so seeded data carries the same
// audit trail and invariants as data created over HTTP.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/apperror"
	"go-care-scheduling/pkg/jwt"
	"go-care-scheduling/pkg/validator"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var Departments = []string{
	"Cardiology",
	"Dermatology",
	"General Practice",
	"Orthopedics",
	"Neurology",
	"Pediatrics",
}

type Options struct {
	Admins       int
	Caregivers   int
	Patients     int
	Appointments int
	// Approved is how many of the seeded appointments get approved, capped by the
	// caregivers available in the matching department.
	Approved int
	// Seed makes the fake data reproducible. Zero picks a random seed.
	Seed uint64
}

// Token is a development access token for one seeded account.
type Token struct {
	Role        entity.Role
	AccountID   uuid.UUID
	Email       string
	AccessToken string
}

type Result struct {
	Admins       []*dto.AdminResponse
	Caregivers   []*dto.CaregiverResponse
	Patients     []*dto.PatientResponse
	Appointments []*dto.AppointmentResponse
	Tokens       []Token
}

type Seeder struct {
	directory    usecase.DirectoryUsecase
	appointments usecase.AppointmentUsecase
	jwtService   *jwt.JWTService
	log          *logrus.Logger
	now          usecase.Clock
}

// NewSeeder builds a seeder. jwtService may be nil, in which case no tokens are issued.
func NewSeeder(
	directory usecase.DirectoryUsecase,
	appointments usecase.AppointmentUsecase,
	jwtService *jwt.JWTService,
	log *logrus.Logger,
	now usecase.Clock,
) *Seeder {
	if now == nil {
		now = time.Now
	}
	return &Seeder{
		directory:    directory,
		appointments: appointments,
		jwtService:   jwtService,
		log:          log,
		now:          now,
	}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Admins < 1 {
		opts.Admins = 1
	}
	faker := gofakeit.New(opts.Seed)
	result := &Result{}

	// The first admin is created by the system itself.
	actor := entity.Actor{Role: entity.RoleAdmin}
	for i := 0; i < opts.Admins; i++ {
		admin, err := s.directory.CreateAdmin(ctx, actor, &dto.CreateAdminRequest{
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Email:     email("admin", i),
		})
		if err != nil {
			return nil, fmt.Errorf("seed admin %d: %w", i, err)
		}
		if i == 0 {
			actor = entity.Actor{ID: admin.ID, Role: entity.RoleAdmin}
		}
		result.Admins = append(result.Admins, admin)
		s.issue(result, entity.RoleAdmin, admin.ID, admin.Email)
	}
	s.log.Infof("Seeded %d admins", len(result.Admins))

	for i := 0; i < opts.Caregivers; i++ {
		caregiver, err := s.directory.CreateCaregiver(ctx, actor, &dto.CreateCaregiverRequest{
			FirstName:   faker.FirstName(),
			LastName:    faker.LastName(),
			Email:       email("caregiver", i),
			PhoneNumber: faker.Phone(),
			Department:  Departments[i%len(Departments)],
		})
		if err != nil {
			return nil, fmt.Errorf("seed caregiver %d: %w", i, err)
		}
		result.Caregivers = append(result.Caregivers, caregiver)
		s.issue(result, entity.RoleCaregiver, caregiver.ID, caregiver.Email)
	}
	s.log.Infof("Seeded %d caregivers", len(result.Caregivers))

	now := s.now()
	for i := 0; i < opts.Patients; i++ {
		dob := faker.DateRange(now.AddDate(-90, 0, 0), now.AddDate(-1, 0, 0))
		patient, err := s.directory.RegisterPatient(ctx, &dto.RegisterPatientRequest{
			FirstName:   faker.FirstName(),
			LastName:    faker.LastName(),
			Email:       email("patient", i),
			PhoneNumber: faker.Phone(),
			Gender:      faker.RandomString([]string{entity.GenderMale, entity.GenderFemale}),
			DateOfBirth: dob.Format(validator.DateLayout),
		})
		if err != nil {
			return nil, fmt.Errorf("seed patient %d: %w", i, err)
		}
		result.Patients = append(result.Patients, patient)
		s.issue(result, entity.RolePatient, patient.ID, patient.Email)
	}
	s.log.Infof("Seeded %d patients", len(result.Patients))

	if len(result.Patients) == 0 {
		return result, nil
	}

	departments := Departments
	if len(result.Caregivers) > 0 {
		departments = caregiverDepartments(result.Caregivers)
	}
	for i := 0; i < opts.Appointments; i++ {
		patient := result.Patients[i%len(result.Patients)]
		requested := now.AddDate(0, 0, faker.Number(1, 14))
		appointment, err := s.appointments.CreateAppointment(ctx,
			entity.Actor{ID: patient.ID, Role: entity.RolePatient},
			&dto.CreateAppointmentRequest{
				Department:    departments[faker.Number(0, len(departments)-1)],
				RequestedDate: requested.Format(validator.DateLayout),
				RequestedTime: fmt.Sprintf("%02d:%s", faker.Number(8, 16), faker.RandomString([]string{"00", "30"})),
			})
		if err != nil {
			return nil, fmt.Errorf("seed appointment %d: %w", i, err)
		}
		result.Appointments = append(result.Appointments, appointment)
	}

	if err := s.approve(ctx, actor, result, opts.Approved); err != nil {
		return nil, err
	}
	s.log.Infof("Seeded %d appointments", len(result.Appointments))
	return result, nil
}

// approve confirms up to n appointments, each with a distinct caregiver from the
// appointment's department.
func (s *Seeder) approve(ctx context.Context, admin entity.Actor, result *Result, n int) error {
	free := make(map[string][]uuid.UUID)
	for _, c := range result.Caregivers {
		free[c.Department] = append(free[c.Department], c.ID)
	}

	approved := 0
	for i, appointment := range result.Appointments {
		if approved >= n {
			break
		}
		pool := free[appointment.Department]
		if len(pool) == 0 {
			continue
		}
		caregiverID := pool[0]
		free[appointment.Department] = pool[1:]

		updated, err := s.appointments.ApproveAppointment(ctx, admin, appointment.ID, &dto.ApproveAppointmentRequest{
			CaregiverID: caregiverID.String(),
		})
		if apperror.KindOf(err) == apperror.KindCaregiverUnavailable {
			s.log.Warnf("Skipping approval of seeded appointment %s: %v", appointment.ID, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("approve seeded appointment %s: %w", appointment.ID, err)
		}
		result.Appointments[i] = updated
		approved++
	}
	return nil
}

func (s *Seeder) issue(result *Result, role entity.Role, id uuid.UUID, email string) {
	if s.jwtService == nil {
		return
	}
	token, _, err := s.jwtService.GenerateAccessToken(id, role.String())
	if err != nil {
		s.log.Warnf("Failed to issue token for %s %s: %+v", role, id, err)
		return
	}
	result.Tokens = append(result.Tokens, Token{Role: role, AccountID: id, Email: email, AccessToken: token})
}

func caregiverDepartments(caregivers []*dto.CaregiverResponse) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range caregivers {
		if !seen[c.Department] {
			seen[c.Department] = true
			out = append(out, c.Department)
		}
	}
	return out
}

func email(role string, i int) string {
	return strings.ToLower(fmt.Sprintf("%s%d@caresched.example.com", role, i+1))
}
