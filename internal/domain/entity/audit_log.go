package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditStatus is the outcome of an audited attempt
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEntity is the kind of record an audit entry is about
type AuditEntity string

const (
	AuditEntityAdmin       AuditEntity = "admin"
	AuditEntityAppointment AuditEntity = "appointment"
	AuditEntityCaregiver   AuditEntity = "caregiver"
	AuditEntityPatient     AuditEntity = "patient"
	AuditEntityError       AuditEntity = "error"
)

// AuditLog is an immutable record of one state-changing attempt
type AuditLog struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID     *uuid.UUID  `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	ActorRole   string      `gorm:"type:varchar(20);not null;index" json:"actor_role"`
	Action      string      `gorm:"type:varchar(100);not null;index" json:"action"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Entity      AuditEntity `gorm:"type:varchar(20);not null;index" json:"entity"`
	EntityID    *uuid.UUID  `gorm:"type:uuid;index" json:"entity_id,omitempty"`
	Status      AuditStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	ErrorDetail string      `gorm:"type:text" json:"error_detail,omitempty"`
	Metadata    JSON        `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Audit actions
const (
	AuditActionAppointmentCreate   = "appointment.create"
	AuditActionAppointmentApprove  = "appointment.approve"
	AuditActionAppointmentReassign = "appointment.reassign"
	AuditActionAppointmentStart    = "appointment.start"
	AuditActionAppointmentComplete = "appointment.complete"
	AuditActionAppointmentCancel   = "appointment.cancel"
	AuditActionCaregiverCreate     = "caregiver.create"
	AuditActionCaregiverUpdate     = "caregiver.update"
	AuditActionCaregiverDelete     = "caregiver.delete"
	AuditActionPatientRegister     = "patient.register"
	AuditActionAdminCreate         = "admin.create"
)
