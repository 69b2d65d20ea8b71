package seed

import (
	"context"
	"io"
	"testing"
	"time"

	"go-care-scheduling/config"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/repository/memory"
	"go-care-scheduling/internal/service"
	"go-care-scheduling/internal/usecase"
	"go-care-scheduling/pkg/jwt"
	"go-care-scheduling/pkg/metrics"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardDispatcher struct{}

func (discardDispatcher) Dispatch(service.Notification) bool { return true }

type harness struct {
	store        *memory.Store
	seeder       *Seeder
	availability usecase.AvailabilityUsecase
	jwtService   *jwt.JWTService
}

func newHarness() *harness {
	store := memory.NewStore()
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.NewTestMetrics()
	now := func() time.Time { return time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC) }

	audit := service.NewAuditService(store, log, store.AuditLogs(), m)
	directory := usecase.NewDirectoryUsecase(store, log, store.Patients(), store.Caregivers(), store.Admins(),
		store.Appointments(), audit)
	appointments := usecase.NewAppointmentUsecase(store, log, store.Appointments(), store.Caregivers(), store.Patients(),
		service.NewNoopCaregiverLocker(), audit, discardDispatcher{}, m, time.UTC, now)
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "seed-secret", AccessExpiry: time.Hour})

	return &harness{
		store:        store,
		seeder:       NewSeeder(directory, appointments, jwtService, log, now),
		availability: usecase.NewAvailabilityUsecase(store, log, store.Appointments(), store.Caregivers()),
		jwtService:   jwtService,
	}
}

func TestSeederRun(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	result, err := h.seeder.Run(ctx, Options{
		Admins:       2,
		Caregivers:   6,
		Patients:     4,
		Appointments: 8,
		Approved:     3,
		Seed:         42,
	})
	require.NoError(t, err)

	assert.Len(t, result.Admins, 2)
	assert.Len(t, result.Caregivers, 6)
	assert.Len(t, result.Patients, 4)
	assert.Len(t, result.Appointments, 8)
	require.Len(t, result.Tokens, 12)

	for _, tok := range result.Tokens {
		claims, err := h.jwtService.ValidateToken(tok.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, tok.AccountID, claims.UserID)
		assert.Equal(t, tok.Role.String(), claims.Role)
	}

	approved := 0
	caregivers := make(map[string]bool)
	for _, a := range result.Appointments {
		if a.Status != string(entity.AppointmentStatusApproved) {
			assert.Equal(t, string(entity.AppointmentStatusPending), a.Status)
			continue
		}
		approved++
		require.NotNil(t, a.CaregiverID)
		assert.False(t, caregivers[a.CaregiverID.String()], "caregiver approved twice")
		caregivers[a.CaregiverID.String()] = true

		c, err := h.store.Caregivers().FindByID(nil, *a.CaregiverID)
		require.NoError(t, err)
		assert.False(t, c.Available)
	}
	assert.GreaterOrEqual(t, approved, 1)
	assert.LessOrEqual(t, approved, 3)

	violations, err := h.availability.CheckAvailability(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)

	total := 0
	for _, p := range result.Patients {
		stored, err := h.store.Patients().FindByID(nil, p.ID)
		require.NoError(t, err)
		total += len(stored.AppointmentIDs)
	}
	assert.Equal(t, 8, total)
}

func TestSeederIsReproducible(t *testing.T) {
	opts := Options{Admins: 1, Caregivers: 3, Patients: 2, Seed: 7}

	first, err := newHarness().seeder.Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := newHarness().seeder.Run(context.Background(), opts)
	require.NoError(t, err)

	for i := range first.Caregivers {
		assert.Equal(t, first.Caregivers[i].FirstName, second.Caregivers[i].FirstName)
		assert.Equal(t, first.Caregivers[i].Department, second.Caregivers[i].Department)
	}
	assert.Equal(t, first.Patients[0].DateOfBirth, second.Patients[0].DateOfBirth)
}

func TestSeederAlwaysCreatesAnAdmin(t *testing.T) {
	result, err := newHarness().seeder.Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Len(t, result.Admins, 1)
	assert.Equal(t, "admin1@caresched.example.com", result.Admins[0].Email)
	assert.Empty(t, result.Appointments)
}
