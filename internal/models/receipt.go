package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReceiptStatusIssued = "ISSUED"
	ReceiptStatusVoided = "VOIDED"
)

// Receipt groups payment registries under one issued reconciliation
// document. The folio is unique and never recomputed once assigned.
// A VOIDED receipt is terminal and read-only.
type Receipt struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID   uuid.UUID         `gorm:"type:uuid;index" json:"provider_id"`
	Provider     *Provider         `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Folio        string            `gorm:"uniqueIndex" json:"folio"`
	IssueDate    time.Time         `gorm:"type:date" json:"issue_date"`
	Observations string            `json:"observations"`
	Status       string            `gorm:"index" json:"status"`
	SignedBy     *string           `json:"signed_by"`
	Payments     []PaymentRegistry `gorm:"foreignKey:ReceiptID" json:"payments,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
