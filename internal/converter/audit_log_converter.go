package converter

import (
	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
)

// AuditLogToResponse converts an AuditLog entity to AuditLogResponse DTO
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	return &dto.AuditLogResponse{
		ID:          log.ID,
		ActorID:     log.ActorID,
		ActorRole:   log.ActorRole,
		Action:      log.Action,
		Description: log.Description,
		Entity:      string(log.Entity),
		EntityID:    log.EntityID,
		Status:      string(log.Status),
		ErrorDetail: log.ErrorDetail,
		Metadata:    log.Metadata,
		CreatedAt:   log.CreatedAt,
	}
}

// AuditLogsToResponses converts a slice of AuditLog entities to slice of AuditLogResponse DTOs
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToResponse(&logs[i])
	}
	return responses
}
