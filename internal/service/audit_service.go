package service

import (
	"context"

	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/internal/domain/repository"
	"go-care-scheduling/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditEvent describes one attempted state change. Err is nil for a success.
type AuditEvent struct {
	Actor       entity.Actor
	Action      string
	Entity      entity.AuditEntity
	EntityID    *uuid.UUID
	Description string
	OldValue    interface{}
	NewValue    interface{}
	Err         error
}

// AuditService appends audit entries. Recording never fails the caller: a write error
// is logged and counted.
type AuditService interface {
	Record(ctx context.Context, event AuditEvent)
}

type auditService struct {
	transactor repository.Transactor
	log        *logrus.Logger
	auditRepo  repository.AuditLogRepository
	metrics    *metrics.Metrics
}

func NewAuditService(transactor repository.Transactor, log *logrus.Logger, auditRepo repository.AuditLogRepository, m *metrics.Metrics) AuditService {
	return &auditService{
		transactor: transactor,
		log:        log,
		auditRepo:  auditRepo,
		metrics:    m,
	}
}

func (s *auditService) Record(ctx context.Context, event AuditEvent) {
	// The entry must outlive a cancelled request.
	ctx = context.WithoutCancel(ctx)

	entry := BuildAuditLog(event)
	if err := s.auditRepo.Create(s.transactor.Conn(ctx), entry); err != nil {
		s.log.Warnf("Failed to create audit log for %s: %+v", event.Action, err)
		s.metrics.AuditWriteFailures.Inc()
	}
}

// BuildAuditLog converts event into the stored entry.
func BuildAuditLog(event AuditEvent) *entity.AuditLog {
	entry := &entity.AuditLog{
		ActorID:     event.Actor.IDPtr(),
		ActorRole:   event.Actor.Role.String(),
		Action:      event.Action,
		Description: event.Description,
		Entity:      event.Entity,
		EntityID:    event.EntityID,
		Status:      entity.AuditStatusSuccess,
	}
	if entry.ActorRole == "" {
		entry.ActorRole = "anonymous"
	}
	if event.OldValue != nil || event.NewValue != nil {
		entry.Metadata = entity.JSON{
			"old_value": event.OldValue,
			"new_value": event.NewValue,
		}
	}
	if event.Err != nil {
		entry.Status = entity.AuditStatusFailed
		entry.ErrorDetail = event.Err.Error()
		if entry.Entity == "" {
			entry.Entity = entity.AuditEntityError
		}
	}
	return entry
}
