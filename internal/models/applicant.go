package models

import "github.com/google/uuid"

type Applicant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RUT       string    `gorm:"uniqueIndex" json:"rut"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
}
