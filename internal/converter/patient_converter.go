package converter

import (
	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/pkg/validator"

	"github.com/google/uuid"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(patient.AppointmentIDs))
	for _, raw := range patient.AppointmentIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}

	return &dto.PatientResponse{
		ID:                 patient.ID,
		FirstName:          patient.FirstName,
		LastName:           patient.LastName,
		Email:              patient.Email,
		PhoneNumber:        patient.PhoneNumber,
		Gender:             patient.Gender,
		DateOfBirth:        patient.DateOfBirth.Format(validator.DateLayout),
		MedicalHistory:     patient.MedicalHistory,
		AppointmentIDs:     ids,
		TotalPrescriptions: patient.TotalPrescriptions,
		CreatedAt:          patient.CreatedAt,
		UpdatedAt:          patient.UpdatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
