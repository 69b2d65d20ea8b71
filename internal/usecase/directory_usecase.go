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
	"go-care-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DirectoryUsecase manages the identity records: patients, caregivers and admins.
type DirectoryUsecase interface {
	FindByID(ctx context.Context, role entity.Role, id uuid.UUID) (*dto.AccountResponse, error)

	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context, page entity.Pagination) (*dto.PatientListResponse, error)

	CreateCaregiver(ctx context.Context, actor entity.Actor, req *dto.CreateCaregiverRequest) (*dto.CaregiverResponse, error)
	GetCaregiver(ctx context.Context, caregiverID uuid.UUID) (*dto.CaregiverResponse, error)
	ListCaregivers(ctx context.Context, department string, page entity.Pagination) (*dto.CaregiverListResponse, error)
	UpdateCaregiver(ctx context.Context, actor entity.Actor, caregiverID uuid.UUID, req *dto.UpdateCaregiverRequest) (*dto.CaregiverResponse, error)
	DeleteCaregiver(ctx context.Context, actor entity.Actor, caregiverID uuid.UUID) error

	CreateAdmin(ctx context.Context, actor entity.Actor, req *dto.CreateAdminRequest) (*dto.AdminResponse, error)
}

type directoryUsecase struct {
	transactor      repository.Transactor
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	caregiverRepo   repository.CaregiverRepository
	adminRepo       repository.AdminRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewDirectoryUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	caregiverRepo repository.CaregiverRepository,
	adminRepo repository.AdminRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) DirectoryUsecase {
	return &directoryUsecase{
		transactor:      transactor,
		log:             log,
		patientRepo:     patientRepo,
		caregiverRepo:   caregiverRepo,
		adminRepo:       adminRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// FindByID resolves an account by role. Unknown ids yield NotFound.
func (u *directoryUsecase) FindByID(ctx context.Context, role entity.Role, id uuid.UUID) (*dto.AccountResponse, error) {
	db := u.transactor.Conn(ctx)
	var account *entity.Account

	switch role {
	case entity.RolePatient:
		patient, err := u.patientRepo.FindByID(db, id)
		if err != nil {
			u.log.Warnf("Failed to find patient: %+v", err)
			return nil, apperror.Storage(err)
		}
		if patient != nil {
			account = &entity.Account{ID: patient.ID, Role: role, Name: patient.FullName(), Email: patient.Email}
		}
	case entity.RoleCaregiver:
		caregiver, err := u.caregiverRepo.FindByID(db, id)
		if err != nil {
			u.log.Warnf("Failed to find caregiver: %+v", err)
			return nil, apperror.Storage(err)
		}
		if caregiver != nil {
			account = &entity.Account{ID: caregiver.ID, Role: role, Name: caregiver.FullName(), Email: caregiver.Email}
		}
	case entity.RoleAdmin:
		admin, err := u.adminRepo.FindByID(db, id)
		if err != nil {
			u.log.Warnf("Failed to find admin: %+v", err)
			return nil, apperror.Storage(err)
		}
		if admin != nil {
			account = &entity.Account{ID: admin.ID, Role: role, Name: admin.FirstName + " " + admin.LastName, Email: admin.Email}
		}
	default:
		return nil, apperror.Validation(fmt.Sprintf("unknown role %q", role))
	}

	if account == nil {
		return nil, apperror.NotFound(string(role))
	}
	return converter.AccountToResponse(account), nil
}

func (u *directoryUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	dob, err := time.Parse(validator.DateLayout, req.DateOfBirth)
	if err != nil {
		return nil, apperror.Validation("date_of_birth must be YYYY-MM-DD")
	}

	patient := &entity.Patient{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:    req.PhoneNumber,
		Gender:         req.Gender,
		DateOfBirth:    dob,
		MedicalHistory: req.MedicalHistory,
		AppointmentIDs: []string{},
	}

	if err := u.patientRepo.Create(u.transactor.Conn(ctx), patient); err != nil {
		appErr := u.createError(err, "patient")
		u.auditService.Record(ctx, service.AuditEvent{
			Actor:       entity.Actor{Role: entity.RolePatient},
			Action:      entity.AuditActionPatientRegister,
			Entity:      entity.AuditEntityPatient,
			Description: "Failed to register patient: " + appErr.Message,
			Err:         err,
		})
		return nil, appErr
	}

	u.auditService.Record(ctx, service.AuditEvent{
		Actor:       entity.Actor{ID: patient.ID, Role: entity.RolePatient},
		Action:      entity.AuditActionPatientRegister,
		Entity:      entity.AuditEntityPatient,
		EntityID:    &patient.ID,
		Description: fmt.Sprintf("Patient %s registered", patient.FullName()),
	})

	return converter.PatientToResponse(patient), nil
}

// GetPatient returns a patient record to an admin or to the patient themselves.
func (u *directoryUsecase) GetPatient(ctx context.Context, actor entity.Actor, patientID uuid.UUID) (*dto.PatientResponse, error) {
	if !actor.IsAdmin() && !(actor.IsPatient() && actor.ID == patientID) {
		return nil, apperror.Forbidden("patient record belongs to another account")
	}

	patient, err := u.patientRepo.FindByID(u.transactor.Conn(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, apperror.Storage(err)
	}
	if patient == nil {
		return nil, apperror.NotFound("patient")
	}

	return converter.PatientToResponse(patient), nil
}

func (u *directoryUsecase) ListPatients(ctx context.Context, page entity.Pagination) (*dto.PatientListResponse, error) {
	page = page.Normalize()
	patients, total, err := u.patientRepo.List(u.transactor.Conn(ctx), page)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, apperror.Storage(err)
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    total,
		Page:     page.Page,
		Limit:    page.Limit,
	}, nil
}

func (u *directoryUsecase) CreateCaregiver(ctx context.Context, actor entity.Actor, req *dto.CreateCaregiverRequest) (*dto.CaregiverResponse, error) {
	caregiver := converter.CreateCaregiverRequestToEntity(req)
	caregiver.Email = strings.ToLower(strings.TrimSpace(caregiver.Email))

	if err := u.caregiverRepo.Create(u.transactor.Conn(ctx), caregiver); err != nil {
		appErr := u.createError(err, "caregiver")
		u.recordCaregiver(ctx, actor, entity.AuditActionCaregiverCreate, nil, "Failed to create caregiver: "+appErr.Message, nil, nil, err)
		return nil, appErr
	}

	response := converter.CaregiverToResponse(caregiver)
	u.recordCaregiver(ctx, actor, entity.AuditActionCaregiverCreate, &caregiver.ID,
		fmt.Sprintf("Created caregiver %s in %s", caregiver.FullName(), caregiver.Department), nil, response, nil)
	return response, nil
}

func (u *directoryUsecase) GetCaregiver(ctx context.Context, caregiverID uuid.UUID) (*dto.CaregiverResponse, error) {
	caregiver, err := u.caregiverRepo.FindByID(u.transactor.Conn(ctx), caregiverID)
	if err != nil {
		u.log.Warnf("Failed to find caregiver: %+v", err)
		return nil, apperror.Storage(err)
	}
	if caregiver == nil {
		return nil, apperror.NotFound("caregiver")
	}

	return converter.CaregiverToResponse(caregiver), nil
}

func (u *directoryUsecase) ListCaregivers(ctx context.Context, department string, page entity.Pagination) (*dto.CaregiverListResponse, error) {
	page = page.Normalize()
	caregivers, total, err := u.caregiverRepo.List(u.transactor.Conn(ctx), strings.TrimSpace(department), page)
	if err != nil {
		u.log.Warnf("Failed to list caregivers: %+v", err)
		return nil, apperror.Storage(err)
	}

	return &dto.CaregiverListResponse{
		Caregivers: converter.CaregiversToResponses(caregivers),
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
	}, nil
}

// UpdateCaregiver edits profile fields. Availability stays with the appointment
// lifecycle and cannot be changed here.
func (u *directoryUsecase) UpdateCaregiver(ctx context.Context, actor entity.Actor, caregiverID uuid.UUID, req *dto.UpdateCaregiverRequest) (*dto.CaregiverResponse, error) {
	var oldValue, newValue *dto.CaregiverResponse

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		caregiver, err := u.caregiverRepo.FindByID(tx, caregiverID)
		if err != nil {
			return err
		}
		if caregiver == nil {
			return apperror.NotFound("caregiver")
		}
		oldValue = converter.CaregiverToResponse(caregiver)

		if req.FirstName != "" {
			caregiver.FirstName = req.FirstName
		}
		if req.LastName != "" {
			caregiver.LastName = req.LastName
		}
		if req.Email != "" {
			caregiver.Email = strings.ToLower(strings.TrimSpace(req.Email))
		}
		if req.PhoneNumber != "" {
			caregiver.PhoneNumber = req.PhoneNumber
		}
		if req.Department != "" {
			caregiver.Department = req.Department
		}

		if err := u.caregiverRepo.UpdateProfile(tx, caregiver); err != nil {
			return u.createError(err, "caregiver")
		}
		newValue = converter.CaregiverToResponse(caregiver)
		return nil
	})
	if err != nil {
		appErr := apperror.From(err)
		if appErr.Kind == apperror.KindStorageFailure {
			u.log.Warnf("Failed to update caregiver: %+v", err)
		}
		u.recordCaregiver(ctx, actor, entity.AuditActionCaregiverUpdate, &caregiverID, "Failed to update caregiver: "+appErr.Message, nil, nil, err)
		return nil, appErr
	}

	u.recordCaregiver(ctx, actor, entity.AuditActionCaregiverUpdate, &caregiverID, "Updated caregiver profile", oldValue, newValue, nil)
	return newValue, nil
}

// DeleteCaregiver removes a caregiver with no appointment history. A caregiver that
// holds a reservation or appears on any appointment cannot be deleted.
func (u *directoryUsecase) DeleteCaregiver(ctx context.Context, actor entity.Actor, caregiverID uuid.UUID) error {
	var oldValue *dto.CaregiverResponse

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		caregiver, err := u.caregiverRepo.FindByID(tx, caregiverID)
		if err != nil {
			return err
		}
		if caregiver == nil {
			return apperror.NotFound("caregiver")
		}
		oldValue = converter.CaregiverToResponse(caregiver)

		reserving, err := u.appointmentRepo.CountReservingByCaregiver(tx, caregiverID)
		if err != nil {
			return err
		}
		if reserving > 0 {
			return apperror.InvalidTransition("caregiver is reserved by an active appointment")
		}

		affected, err := u.caregiverRepo.Delete(tx, caregiverID)
		if err != nil {
			if isForeignKeyError(err, "caregiver") {
				return apperror.InvalidTransition("caregiver has appointment history")
			}
			return err
		}
		if affected == 0 {
			return apperror.NotFound("caregiver")
		}
		return nil
	})
	if err != nil {
		appErr := apperror.From(err)
		if appErr.Kind == apperror.KindStorageFailure {
			u.log.Warnf("Failed to delete caregiver: %+v", err)
		}
		u.recordCaregiver(ctx, actor, entity.AuditActionCaregiverDelete, &caregiverID, "Failed to delete caregiver: "+appErr.Message, nil, nil, err)
		return appErr
	}

	u.recordCaregiver(ctx, actor, entity.AuditActionCaregiverDelete, &caregiverID, "Deleted caregiver", oldValue, nil, nil)
	return nil
}

func (u *directoryUsecase) CreateAdmin(ctx context.Context, actor entity.Actor, req *dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	admin := &entity.Admin{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
	}

	if err := u.adminRepo.Create(u.transactor.Conn(ctx), admin); err != nil {
		appErr := u.createError(err, "admin")
		u.auditService.Record(ctx, service.AuditEvent{
			Actor:       actor,
			Action:      entity.AuditActionAdminCreate,
			Entity:      entity.AuditEntityAdmin,
			Description: "Failed to create admin: " + appErr.Message,
			Err:         err,
		})
		return nil, appErr
	}

	u.auditService.Record(ctx, service.AuditEvent{
		Actor:       actor,
		Action:      entity.AuditActionAdminCreate,
		Entity:      entity.AuditEntityAdmin,
		EntityID:    &admin.ID,
		Description: fmt.Sprintf("Created admin %s %s", admin.FirstName, admin.LastName),
	})
	return converter.AdminToResponse(admin), nil
}

// createError maps insert failures: a duplicate email is a validation error, anything
// else a storage failure.
func (u *directoryUsecase) createError(err error, resource string) *apperror.Error {
	if isDuplicateKeyError(err, "email") {
		return apperror.Validation(fmt.Sprintf("%s email already exists", resource))
	}
	u.log.Warnf("Failed to save %s: %+v", resource, err)
	return apperror.Storage(err)
}

func (u *directoryUsecase) recordCaregiver(ctx context.Context, actor entity.Actor, action string, id *uuid.UUID, description string, oldValue, newValue interface{}, err error) {
	u.auditService.Record(ctx, service.AuditEvent{
		Actor:       actor,
		Action:      action,
		Entity:      entity.AuditEntityCaregiver,
		EntityID:    id,
		Description: description,
		OldValue:    oldValue,
		NewValue:    newValue,
		Err:         err,
	})
}
