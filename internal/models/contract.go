package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContractOrderSingle   = "UNICA"
	ContractOrderMultiple = "MULTIPLE"
)

type Contract struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PublicMarketCode string     `gorm:"uniqueIndex" json:"public_market_code"`
	Description      string     `json:"description"`
	ProviderID       *uuid.UUID `gorm:"index" json:"provider_id"`
	Provider         *Provider  `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	ProcessType      string     `json:"process_type"`
	Status           string     `json:"status"`
	Category         string     `json:"category"`
	OrderType        string     `gorm:"default:UNICA" json:"order_type"`
	OrderNumber      *string    `json:"order_number"`
	CDP              *string    `json:"cdp"`
	TotalAmount      int64      `gorm:"default:0" json:"total_amount"`
	AwardDate        time.Time  `gorm:"type:date" json:"award_date"`
	StartDate        time.Time  `gorm:"type:date" json:"start_date"`
	EndDate          time.Time  `gorm:"type:date" json:"end_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
