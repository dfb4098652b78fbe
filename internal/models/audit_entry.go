package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AuditActionCreated          = "CREATED"
	AuditActionModified         = "MODIFIED"
	AuditActionPaymentsModified = "PAYMENTS_MODIFIED"
	AuditActionVoided           = "VOIDED"
)

// AuditEntry is an append-only history row for one receipt. Entries are
// written only by the receipt service and never mutated.
type AuditEntry struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReceiptID   uuid.UUID      `gorm:"type:uuid;index" json:"receipt_id"`
	Action      string         `json:"action"`
	Detail      string         `json:"detail"`
	Changes     datatypes.JSON `json:"changes,omitempty"`
	PerformedBy string         `json:"performed_by"`
	CreatedAt   time.Time      `json:"created_at"`
}
