package repository

import (
	"github.com/GDiazF/sgaf/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// Expose DB if needed
func (r *ProviderRepository) DB() *gorm.DB {
	return r.db
}

// GetByID fetches a provider with its type preloaded.
func (r *ProviderRepository) GetByID(id uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.Preload("ProviderType").First(&provider, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// List returns providers, optionally filtered by provider type.
func (r *ProviderRepository) List(typeID *uuid.UUID) ([]models.Provider, error) {
	var providers []models.Provider
	query := r.db.Preload("ProviderType").Order("name ASC")
	if typeID != nil {
		query = query.Where("provider_type_id = ?", *typeID)
	}
	err := query.Find(&providers).Error
	return providers, err
}
