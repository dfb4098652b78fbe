package models

import "github.com/google/uuid"

// ProviderType classifies providers; its acronym seeds receipt folio prefixes.
type ProviderType struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `json:"name"`
	Acronym string    `json:"acronym"`
}
