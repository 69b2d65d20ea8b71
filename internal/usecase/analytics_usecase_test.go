package usecase

import (
	"context"
	"testing"
	"time"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func shareOf(t *testing.T, shares []dto.CountShare, key string) dto.CountShare {
	t.Helper()
	for _, s := range shares {
		if s.Key == key {
			return s
		}
	}
	t.Fatalf("no bucket %q in %+v", key, shares)
	return dto.CountShare{}
}

func TestPercentageRoundsToTwoPlaces(t *testing.T) {
	assert.True(t, decimal.RequireFromString("33.33").Equal(percentage(1, 3)))
	assert.True(t, decimal.RequireFromString("66.67").Equal(percentage(2, 3)))
	assert.True(t, decimal.Zero.Equal(percentage(0, 0)))
	assert.True(t, decimal.NewFromInt(100).Equal(percentage(4, 4)))
}

func TestBuildAppointmentAnalytics(t *testing.T) {
	now := fixedNow
	cg := uuid.New()
	appointments := []entity.Appointment{
		{ID: uuid.New(), Department: "Cardiology", Status: entity.AppointmentStatusApproved, CaregiverID: &cg, AppointmentDate: date(2025, 5, 30), AppointmentTime: "14:00"},
		{ID: uuid.New(), Department: "Cardiology", Status: entity.AppointmentStatusApproved, AppointmentDate: date(2025, 6, 3), AppointmentTime: "09:00"},
		{ID: uuid.New(), Department: "Cardiology", Status: entity.AppointmentStatusApproved, AppointmentDate: date(2025, 6, 2), AppointmentTime: "09:00"},
		{ID: uuid.New(), Department: "Neurology", Status: entity.AppointmentStatusPending},
		{ID: uuid.New(), Department: "Neurology", Status: entity.AppointmentStatusApproved, AppointmentDate: date(2025, 6, 30), AppointmentTime: "09:00"},
	}

	res := BuildAppointmentAnalytics(appointments, now)

	assert.Equal(t, 5, res.TotalAppointments)
	require.Len(t, res.ByStatus, len(entity.AppointmentStatuses))
	assert.Equal(t, string(entity.AppointmentStatusPending), res.ByStatus[0].Key)
	assert.Equal(t, 4, shareOf(t, res.ByStatus, "approved").Count)
	assert.Equal(t, 0, shareOf(t, res.ByStatus, "canceled").Count)

	assert.Equal(t, "Cardiology", res.ByDepartment[0].Key)
	assert.True(t, decimal.NewFromInt(60).Equal(res.ByDepartment[0].Percentage))

	require.Len(t, res.TodayAppointments, 1)
	assert.Equal(t, appointments[0].ID, res.TodayAppointments[0].ID)

	require.Len(t, res.UpcomingAppointments, 2)
	assert.Equal(t, "2025-06-02", res.UpcomingAppointments[0].AppointmentDate)
	assert.Equal(t, "2025-06-03", res.UpcomingAppointments[1].AppointmentDate)
}

func TestBuildCaregiverAnalytics(t *testing.T) {
	a := entity.Caregiver{ID: uuid.New(), FirstName: "Ann", LastName: "A", Department: "Cardiology", Available: false}
	b := entity.Caregiver{ID: uuid.New(), FirstName: "Ben", LastName: "B", Department: "Cardiology", Available: true}
	c := entity.Caregiver{ID: uuid.New(), FirstName: "Cat", LastName: "C", Department: "Neurology", Available: true}

	appointments := []entity.Appointment{
		{ID: uuid.New(), Status: entity.AppointmentStatusInProgress, CaregiverID: &a.ID},
		{ID: uuid.New(), Status: entity.AppointmentStatusCompleted, CaregiverID: &b.ID},
	}

	res := BuildCaregiverAnalytics([]entity.Caregiver{a, b, c}, appointments)

	assert.Equal(t, 3, res.TotalCaregivers)
	assert.Equal(t, 2, res.AvailableCaregivers)
	assert.True(t, decimal.RequireFromString("66.67").Equal(res.AvailablePercentage))
	assert.Equal(t, 2, shareOf(t, res.DepartmentDistribution, "Cardiology").Count)
	require.Len(t, res.Workload, 1)
	assert.Equal(t, a.ID, res.Workload[0].CaregiverID)
	assert.Equal(t, "Ann A", res.Workload[0].FullName)
}

func TestBuildPatientAnalytics(t *testing.T) {
	now := fixedNow
	p1 := entity.Patient{ID: uuid.New(), Gender: entity.GenderFemale, DateOfBirth: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), CreatedAt: now.AddDate(0, 0, -3)}
	p2 := entity.Patient{ID: uuid.New(), Gender: entity.GenderMale, DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), CreatedAt: now.AddDate(0, -2, 0)}
	p3 := entity.Patient{ID: uuid.New(), Gender: entity.GenderFemale, DateOfBirth: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), CreatedAt: now.AddDate(0, 0, -40)}

	appointments := []entity.Appointment{
		{PatientID: p1.ID, Department: "Cardiology"},
		{PatientID: p1.ID, Department: "Cardiology"},
		{PatientID: p2.ID, Department: "Cardiology"},
		{PatientID: p3.ID, Department: "Pediatrics"},
	}

	res := BuildPatientAnalytics([]entity.Patient{p1, p2, p3}, appointments, now)

	assert.Equal(t, 3, res.TotalPatients)
	assert.Equal(t, 1, res.NewPatientsLast30)
	assert.Equal(t, 2, shareOf(t, res.GenderDistribution, "female").Count)

	// p1 turns 35 on June 1st, so is still 34 on May 30th.
	assert.Equal(t, 34, ageOn(p1.DateOfBirth, now))
	assert.Equal(t, 35, ageOn(p2.DateOfBirth, now))
	require.Len(t, res.AgeDistribution, 2)
	assert.Equal(t, "10-19", res.AgeDistribution[0].Key)
	assert.Equal(t, "30-39", res.AgeDistribution[1].Key)
	assert.Equal(t, 2, res.AgeDistribution[1].Count)

	cardiology := shareOf(t, res.PatientsByDepartment, "Cardiology")
	assert.Equal(t, 2, cardiology.Count)
	assert.True(t, decimal.RequireFromString("66.67").Equal(cardiology.Percentage))
}

func TestAnalyticsUsecaseLoadsFromStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")
	f.addCaregiver(t, "idle@clinic.test", "Neurology")

	booked := f.book(t, patient, "Cardiology")
	f.book(t, patient, "Cardiology")
	f.approve(t, booked.ID, caregiver.ID)

	dashboard, err := f.analytics.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.TotalPatients)
	assert.Equal(t, 2, dashboard.TotalCaregivers)
	assert.Equal(t, 2, dashboard.TotalAppointments)
	assert.Equal(t, 1, dashboard.PendingAppointments)
	assert.Equal(t, 1, dashboard.ActiveAppointments)

	appointments, err := f.analytics.AppointmentAnalytics(ctx)
	require.NoError(t, err)
	require.Len(t, appointments.UpcomingAppointments, 1)
	assert.Equal(t, booked.ID, appointments.UpcomingAppointments[0].ID)

	caregivers, err := f.analytics.CaregiverAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, caregivers.AvailableCaregivers)
	require.Len(t, caregivers.Workload, 1)
	assert.Equal(t, caregiver.ID, caregivers.Workload[0].CaregiverID)

	patients, err := f.analytics.PatientAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, shareOf(t, patients.PatientsByDepartment, "Cardiology").Count)
}
