package usecase

import (
	"context"
	"testing"

	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPatient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := &dto.RegisterPatientRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "Jane@Example.com",
		PhoneNumber: "555-0101",
		Gender:      entity.GenderFemale,
		DateOfBirth: "1985-07-21",
	}
	res, err := f.directory.RegisterPatient(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.Email)
	assert.Equal(t, "1985-07-21", res.DateOfBirth)
	assert.Empty(t, res.AppointmentIDs)
	assert.Zero(t, res.TotalPrescriptions)

	_, err = f.directory.RegisterPatient(ctx, req)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	req.DateOfBirth = "21/07/1985"
	_, err = f.directory.RegisterPatient(ctx, req)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	self := entity.Actor{ID: res.ID, Role: entity.RolePatient}
	got, err := f.directory.GetPatient(ctx, self, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)

	other := f.addPatient(t, "other@clinic.test")
	_, err = f.directory.GetPatient(ctx, other, res.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestCaregiverDirectory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.directory.CreateCaregiver(ctx, f.admin, &dto.CreateCaregiverRequest{
		FirstName: "Greg", LastName: "House", Email: "house@clinic.test", PhoneNumber: "555-0300", Department: "Diagnostics",
	})
	require.NoError(t, err)
	assert.True(t, created.Available)

	_, err = f.directory.CreateCaregiver(ctx, f.admin, &dto.CreateCaregiverRequest{
		FirstName: "Greg", LastName: "Clone", Email: "HOUSE@clinic.test", PhoneNumber: "555-0301", Department: "Diagnostics",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	f.addCaregiver(t, "cara@clinic.test", "Cardiology")

	list, err := f.directory.ListCaregivers(ctx, "diagnostics", entity.Pagination{})
	require.NoError(t, err)
	require.Len(t, list.Caregivers, 1)
	assert.Equal(t, created.ID, list.Caregivers[0].ID)

	updated, err := f.directory.UpdateCaregiver(ctx, f.admin, created.ID, &dto.UpdateCaregiverRequest{Department: "Nephrology"})
	require.NoError(t, err)
	assert.Equal(t, "Nephrology", updated.Department)
	assert.Equal(t, "Greg", updated.FirstName)
	assert.True(t, updated.Available)

	_, err = f.directory.UpdateCaregiver(ctx, f.admin, uuid.New(), &dto.UpdateCaregiverRequest{Department: "Nephrology"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	account, err := f.directory.FindByID(ctx, entity.RoleCaregiver, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Greg House", account.Name)
	assert.Equal(t, string(entity.RoleCaregiver), account.Role)

	_, err = f.directory.FindByID(ctx, entity.RolePatient, created.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	require.NoError(t, f.directory.DeleteCaregiver(ctx, f.admin, created.ID))
	_, err = f.directory.GetCaregiver(ctx, created.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = f.directory.DeleteCaregiver(ctx, f.admin, created.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteCaregiverWithAppointments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patient := f.addPatient(t, "pat@clinic.test")
	caregiver := f.addCaregiver(t, "cara@clinic.test", "Cardiology")

	booked := f.book(t, patient, "Cardiology")
	f.approve(t, booked.ID, caregiver.ID)

	err := f.directory.DeleteCaregiver(ctx, f.admin, caregiver.ID)
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))

	_, err = f.appointments.CancelAppointment(ctx, f.admin, booked.ID, nil)
	require.NoError(t, err)

	err = f.directory.DeleteCaregiver(ctx, f.admin, caregiver.ID)
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err), "history still references the caregiver")

	logs, err := f.audit.ListAuditLogs(ctx, &dto.AuditLogListRequest{Entity: string(entity.AuditEntityCaregiver)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, logs.Total)
	for _, l := range logs.Logs {
		assert.Equal(t, string(entity.AuditStatusFailed), l.Status)
	}
	f.requireConsistent(t)
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture(t)

	res, err := f.directory.CreateAdmin(context.Background(), f.admin, &dto.CreateAdminRequest{
		FirstName: "Second", LastName: "Admin", Email: "second@clinic.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "second@clinic.test", res.Email)

	_, err = f.directory.CreateAdmin(context.Background(), f.admin, &dto.CreateAdminRequest{
		FirstName: "Second", LastName: "Admin", Email: "admin@clinic.test",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
