package repository

import (
	"github.com/GDiazF/sgaf/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

func (r *ReceiptRepository) DB() *gorm.DB {
	return r.db
}

// GetByID fetches a receipt with provider and assigned payments preloaded.
func (r *ReceiptRepository) GetByID(id uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.
		Preload("Provider.ProviderType").
		Preload("Payments").
		First(&receipt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// List returns receipts newest first, optionally filtered by provider or status.
func (r *ReceiptRepository) List(providerID *uuid.UUID, status string) ([]models.Receipt, error) {
	var receipts []models.Receipt
	query := r.db.Preload("Provider").Order("created_at DESC")
	if providerID != nil {
		query = query.Where("provider_id = ?", *providerID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&receipts).Error
	return receipts, err
}

// History returns the audit trail of one receipt, newest first.
func (r *ReceiptRepository) History(receiptID uuid.UUID) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.Where("receipt_id = ?", receiptID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}
