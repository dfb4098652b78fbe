package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRegistry is one owed/paid amount for a service. Amounts are whole
// pesos; TotalAmount is supplied by the caller and not derived from
// Amount + InterestAmount. ReceiptID is null while the payment is
// unreconciled and set when it is attached to a receipt.
type PaymentRegistry struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID       uuid.UUID  `gorm:"type:uuid;index" json:"service_id"`
	Service         *Service   `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	EstablishmentID uuid.UUID  `gorm:"type:uuid;index" json:"establishment_id"`
	IssueDate       time.Time  `gorm:"type:date" json:"issue_date"`
	DueDate         time.Time  `gorm:"type:date" json:"due_date"`
	PaymentDate     time.Time  `gorm:"type:date" json:"payment_date"`
	DocumentNumber  string     `gorm:"index" json:"document_number"`
	Amount          int64      `gorm:"default:0" json:"amount"`
	InterestAmount  int64      `gorm:"default:0" json:"interest_amount"`
	TotalAmount     int64      `json:"total_amount"`
	ReceiptID       *uuid.UUID `gorm:"index" json:"receipt_id"`
	CreatedAt       time.Time  `json:"created_at"`
}
