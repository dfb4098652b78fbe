package repository

import (
	"github.com/GDiazF/sgaf/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) DB() *gorm.DB {
	return r.db
}

// ListUnassigned returns payments not attached to any receipt, optionally
// restricted to one provider's services.
func (r *PaymentRepository) ListUnassigned(providerID *uuid.UUID) ([]models.PaymentRegistry, error) {
	var payments []models.PaymentRegistry
	query := r.db.Preload("Service").Where("receipt_id IS NULL")
	if providerID != nil {
		query = query.Joins("JOIN services ON services.id = payment_registries.service_id").
			Where("services.provider_id = ?", *providerID)
	}
	err := query.Order("payment_date DESC").Find(&payments).Error
	return payments, err
}

// FindServiceByClientNumber resolves the service a bulk-import row refers to.
func (r *PaymentRepository) FindServiceByClientNumber(clientNumber string) (*models.Service, error) {
	var service models.Service
	err := r.db.First(&service, "client_number = ?", clientNumber).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// List returns payment registries newest payment first, with optional filters.
func (r *PaymentRepository) List(establishmentID, serviceID *uuid.UUID) ([]models.PaymentRegistry, error) {
	var payments []models.PaymentRegistry
	query := r.db.Preload("Service").Order("payment_date DESC")
	if establishmentID != nil {
		query = query.Where("establishment_id = ?", *establishmentID)
	}
	if serviceID != nil {
		query = query.Where("service_id = ?", *serviceID)
	}
	err := query.Find(&payments).Error
	return payments, err
}
