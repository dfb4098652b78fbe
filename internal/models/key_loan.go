package models

import (
	"time"

	"github.com/google/uuid"
)

// KeyLoan is active while ReturnedAt is null. A key with an active loan
// is unavailable.
type KeyLoan struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	KeyID       uuid.UUID  `gorm:"type:uuid;index" json:"key_id"`
	Key         *Key       `gorm:"foreignKey:KeyID" json:"key,omitempty"`
	ApplicantID uuid.UUID  `gorm:"type:uuid;index" json:"applicant_id"`
	Applicant   *Applicant `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	LoanedAt    time.Time  `json:"loaned_at"`
	ReturnedAt  *time.Time `json:"returned_at"`
	Observation string     `json:"observation"`
	DeliveredBy string     `json:"delivered_by"`
	ReceivedBy  string     `json:"received_by"`
}
