package models

import "github.com/google/uuid"

// DocumentType is the kind of fiscal document a service is billed with
// (e.g. Factura, Boleta).
type DocumentType struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `json:"name"`
}
