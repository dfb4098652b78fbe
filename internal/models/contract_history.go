package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContractAuditCreated  = "CREATED"
	ContractAuditModified = "MODIFIED"
)

// ContractHistory records field-level changes to a contract. Rows are
// written explicitly by the contract service when it detects a diff.
type ContractHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID  uuid.UUID `gorm:"type:uuid;index" json:"contract_id"`
	Action      string    `json:"action"`
	Detail      string    `json:"detail"`
	PerformedBy string    `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}
