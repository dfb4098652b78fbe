package models

import (
	"time"

	"github.com/google/uuid"
)

type Provider struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string        `gorm:"index" json:"name"`
	RUT            *string       `json:"rut"`
	ProviderTypeID *uuid.UUID    `gorm:"index" json:"provider_type_id"`
	ProviderType   *ProviderType `gorm:"foreignKey:ProviderTypeID" json:"provider_type,omitempty"`
	Contact        *string       `json:"contact"`
	CreatedAt      time.Time     `json:"created_at"`
}
