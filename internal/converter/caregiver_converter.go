package converter

import (
	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
)

// CaregiverToResponse converts a Caregiver entity to CaregiverResponse DTO
func CaregiverToResponse(caregiver *entity.Caregiver) *dto.CaregiverResponse {
	if caregiver == nil {
		return nil
	}

	return &dto.CaregiverResponse{
		ID:          caregiver.ID,
		FirstName:   caregiver.FirstName,
		LastName:    caregiver.LastName,
		Email:       caregiver.Email,
		PhoneNumber: caregiver.PhoneNumber,
		Department:  caregiver.Department,
		Available:   caregiver.Available,
		CreatedAt:   caregiver.CreatedAt,
		UpdatedAt:   caregiver.UpdatedAt,
	}
}

func CaregiversToResponses(caregivers []entity.Caregiver) []dto.CaregiverResponse {
	responses := make([]dto.CaregiverResponse, len(caregivers))
	for i := range caregivers {
		responses[i] = *CaregiverToResponse(&caregivers[i])
	}
	return responses
}

// CreateCaregiverRequestToEntity builds a new, available caregiver.
func CreateCaregiverRequestToEntity(req *dto.CreateCaregiverRequest) *entity.Caregiver {
	return &entity.Caregiver{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Department:  req.Department,
		Available:   true,
	}
}
