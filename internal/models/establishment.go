package models

import (
	"time"

	"github.com/google/uuid"
)

type Establishment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RBD       int       `gorm:"index" json:"rbd"`
	Name      string    `gorm:"index" json:"name"`
	Type      string    `json:"type"` // escuela, jardin, liceo, colegio, centro_laboral
	Director  string    `json:"director"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
