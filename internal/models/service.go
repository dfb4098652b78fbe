package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a recurring vendor service contracted for one establishment,
// identified towards the vendor by its client number.
type Service struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID      uuid.UUID     `gorm:"type:uuid;index" json:"provider_id"`
	Provider        *Provider     `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	EstablishmentID uuid.UUID     `gorm:"type:uuid;index" json:"establishment_id"`
	Establishment   *Establishment `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	ServiceNumber   *string       `json:"service_number"`
	ClientNumber    string        `gorm:"index" json:"client_number"`
	DocumentTypeID  *uuid.UUID    `json:"document_type_id"`
	DocumentType    *DocumentType `gorm:"foreignKey:DocumentTypeID" json:"document_type,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
