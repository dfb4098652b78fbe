package models

import (
	"time"

	"github.com/google/uuid"
)

// FleetRecord aggregates vehicle fleet expenses for one month.
type FleetRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Year             int       `gorm:"uniqueIndex:idx_fleet_period" json:"year"`
	Month            int       `gorm:"uniqueIndex:idx_fleet_period" json:"month"`
	VehicleCount     int       `gorm:"default:0" json:"vehicle_count"`
	Kilometers       int64     `gorm:"default:0" json:"kilometers"`
	FuelExpense      int64     `gorm:"default:0" json:"fuel_expense"`
	TollExpense      int64     `gorm:"default:0" json:"toll_expense"`
	InsuranceExpense int64     `gorm:"default:0" json:"insurance_expense"`
	CreatedAt        time.Time `json:"created_at"`
}
