package converter

import (
	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/pkg/validator"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		CaregiverID:     appointment.CaregiverID,
		Department:      appointment.Department,
		RequestedDate:   appointment.RequestedDate.Format(validator.DateLayout),
		RequestedTime:   appointment.RequestedTime,
		AppointmentTime: appointment.AppointmentTime,
		Status:          string(appointment.Status),
		BookedByID:      appointment.BookedByID,
		BookedByRole:    appointment.BookedByRole.String(),
		ApprovedAt:      appointment.ApprovedAt,
		StartTime:       appointment.StartTime,
		EndTime:         appointment.EndTime,
		Notes:           appointment.Notes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	if appointment.AppointmentDate != nil {
		response.AppointmentDate = appointment.AppointmentDate.Format(validator.DateLayout)
	}

	// Include related records if preloaded
	if appointment.Patient != nil {
		response.Patient = &dto.PatientSummary{
			ID:       appointment.Patient.ID,
			FullName: appointment.Patient.FullName(),
			Email:    appointment.Patient.Email,
		}
	}
	if appointment.Caregiver != nil {
		response.Caregiver = &dto.CaregiverSummary{
			ID:         appointment.Caregiver.ID,
			FullName:   appointment.Caregiver.FullName(),
			Email:      appointment.Caregiver.Email,
			Department: appointment.Caregiver.Department,
		}
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
