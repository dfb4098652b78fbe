package models

import (
	"github.com/google/uuid"
)

type Key struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string         `json:"name"`
	EstablishmentID uuid.UUID      `gorm:"type:uuid;index" json:"establishment_id"`
	Establishment   *Establishment `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	Location        string         `json:"location"`
}
