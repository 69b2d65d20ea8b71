package usecase

import (
	"context"
	"time"

	"go-care-scheduling/internal/converter"
	"go-care-scheduling/internal/delivery/dto"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/domain/repository"
	"go-care-scheduling/pkg/apperror"
	"go-care-scheduling/pkg/validator"

	"github.com/sirupsen/logrus"
)

type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	transactor   repository.Transactor
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
	location     *time.Location
}

func NewAuditLogUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
	location *time.Location,
) AuditLogUsecase {
	if location == nil {
		location = time.UTC
	}
	return &auditLogUsecase{
		transactor:   transactor,
		log:          log,
		auditLogRepo: auditLogRepo,
		location:     location,
	}
}

// ListAuditLogs returns entries newest first. The date range is inclusive of whole days
// in the clinic timezone.
func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, error) {
	filter := entity.AuditLogFilter{
		ActorRole:  req.UserRole,
		Entity:     entity.AuditEntity(req.Entity),
		Status:     entity.AuditStatus(req.Status),
		Pagination: entity.Pagination{Page: req.Page, Limit: req.Limit}.Normalize(),
	}

	if req.StartDate != "" {
		start, err := time.ParseInLocation(validator.DateLayout, req.StartDate, u.location)
		if err != nil {
			return nil, apperror.Validation("start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.ParseInLocation(validator.DateLayout, req.EndDate, u.location)
		if err != nil {
			return nil, apperror.Validation("end_date must be YYYY-MM-DD")
		}
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperror.Validation("end_date must not be before start_date")
	}

	logs, total, err := u.auditLogRepo.List(u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, apperror.Storage(err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, apperror.Storage(err)
	}
	if auditLog == nil {
		return nil, apperror.NotFound("audit log")
	}

	return converter.AuditLogToResponse(auditLog), nil
}
