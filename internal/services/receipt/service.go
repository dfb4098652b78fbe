package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GDiazF/sgaf/internal/models"
	"github.com/GDiazF/sgaf/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SystemActor is recorded on audit entries when no acting user is supplied.
const SystemActor = "system"

// Service implements the reconciliation document engine: folio generation,
// payment assignment, void semantics and the audit trail. Every mutating
// operation runs inside one transaction and validates before it mutates.
type Service struct {
	db          *gorm.DB
	receiptRepo *repository.ReceiptRepository
	paymentRepo *repository.PaymentRepository
	logger      *logrus.Logger
}

func NewService(
	receiptRepo *repository.ReceiptRepository,
	paymentRepo *repository.PaymentRepository,
	logger *logrus.Logger,
) *Service {
	return &Service{
		db:          receiptRepo.DB(),
		receiptRepo: receiptRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// UpdateInput carries the partial changes accepted by Update. Nil fields
// are left untouched; a non-nil PaymentIDs replaces the assigned set.
type UpdateInput struct {
	Observations *string
	SignedBy     *string
	PaymentIDs   []uuid.UUID
	HasPayments  bool
}

type fieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Create issues a new receipt for a provider with zero or more initial
// payment assignments. Any invalid payment fails the whole operation.
func (s *Service) Create(providerID uuid.UUID, paymentIDs []uuid.UUID, observations string, signedBy *string, actor string) (*models.Receipt, error) {
	actor = actorOr(actor)
	var created models.Receipt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var provider models.Provider
		if err := tx.Preload("ProviderType").First(&provider, "id = ?", providerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProviderNotFound
			}
			return err
		}

		paymentIDs = dedupe(paymentIDs)
		payments, err := s.validateAssignable(tx, provider.ID, paymentIDs, uuid.Nil)
		if err != nil {
			return err
		}

		receipt := models.Receipt{
			ID:           uuid.New(),
			ProviderID:   provider.ID,
			IssueDate:    time.Now(),
			Observations: observations,
			Status:       models.ReceiptStatusIssued,
			SignedBy:     signedBy,
		}
		if err := s.createWithFolio(tx, &receipt, &provider); err != nil {
			return err
		}

		if len(paymentIDs) > 0 {
			if err := tx.Model(&models.PaymentRegistry{}).
				Where("id IN ?", paymentIDs).
				Update("receipt_id", receipt.ID).Error; err != nil {
				return err
			}
		}

		detail := fmt.Sprintf("Receipt %s created with %d payment(s) attached.", receipt.Folio, len(payments))
		if err := s.writeAudit(tx, receipt.ID, models.AuditActionCreated, detail, nil, actor); err != nil {
			return err
		}

		created = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"folio":    created.Folio,
		"provider": created.ProviderID,
		"payments": len(paymentIDs),
	}).Info("receipt created")

	return s.receiptRepo.GetByID(created.ID)
}

// createWithFolio persists the receipt, generating its folio. A duplicate
// folio from a concurrent creation is retried once with a fresh sequence.
func (s *Service) createWithFolio(tx *gorm.DB, receipt *models.Receipt, provider *models.Provider) error {
	base := folioPrefix(provider)
	year := receipt.IssueDate.Year()

	for attempt := 0; attempt < 2; attempt++ {
		folio, err := nextFolio(tx, base, year)
		if err != nil {
			return err
		}
		receipt.Folio = folio

		err = tx.Create(receipt).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		s.logger.WithField("folio", folio).Warn("folio collision, recomputing sequence")
	}
	return ErrFolioConflict
}

// Update amends an ISSUED receipt: observation/signer edits and payment
// reassignment via symmetric difference against the current set. Additions
// are fully validated before anything is detached, and the whole operation
// commits or rolls back as one transaction.
func (s *Service) Update(id uuid.UUID, input UpdateInput, actor string) (*models.Receipt, error) {
	actor = actorOr(actor)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var receipt models.Receipt
		if err := tx.Preload("Payments").First(&receipt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReceiptNotFound
			}
			return err
		}
		if receipt.Status == models.ReceiptStatusVoided {
			return ErrReceiptVoided
		}

		if err := s.applyFieldChanges(tx, &receipt, input, actor); err != nil {
			return err
		}
		if input.HasPayments {
			if err := s.applyPaymentChanges(tx, &receipt, dedupe(input.PaymentIDs), actor); err != nil {
				return err
			}
		}

		// touch by id only: updating through the loaded struct would upsert
		// the stale Payments association and re-attach detached rows
		return tx.Model(&models.Receipt{}).
			Where("id = ?", receipt.ID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	return s.receiptRepo.GetByID(id)
}

// applyFieldChanges diffs plain fields and writes one MODIFIED audit entry
// when anything actually changed.
func (s *Service) applyFieldChanges(tx *gorm.DB, receipt *models.Receipt, input UpdateInput, actor string) error {
	var changes []fieldChange
	updates := map[string]interface{}{}

	if input.Observations != nil && *input.Observations != receipt.Observations {
		changes = append(changes, fieldChange{Field: "observations", Old: receipt.Observations, New: *input.Observations})
		updates["observations"] = *input.Observations
		receipt.Observations = *input.Observations
	}
	if input.SignedBy != nil && (receipt.SignedBy == nil || *receipt.SignedBy != *input.SignedBy) {
		old := ""
		if receipt.SignedBy != nil {
			old = *receipt.SignedBy
		}
		changes = append(changes, fieldChange{Field: "signed_by", Old: old, New: *input.SignedBy})
		updates["signed_by"] = *input.SignedBy
		receipt.SignedBy = input.SignedBy
	}

	if len(changes) == 0 {
		return nil
	}
	if err := tx.Model(&models.Receipt{}).
		Where("id = ?", receipt.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, fmt.Sprintf("%s: '%s' -> '%s'", c.Field, c.Old, c.New))
	}
	detail := fmt.Sprintf("Receipt %s modified: %s.", receipt.Folio, strings.Join(parts, ", "))
	return s.writeAudit(tx, receipt.ID, models.AuditActionModified, detail, changes, actor)
}

// applyPaymentChanges replaces the assigned payment set. Removals are
// processed first, then additions, each with its own audit entry.
func (s *Service) applyPaymentChanges(tx *gorm.DB, receipt *models.Receipt, target []uuid.UUID, actor string) error {
	current := make(map[uuid.UUID]models.PaymentRegistry, len(receipt.Payments))
	for _, p := range receipt.Payments {
		current[p.ID] = p
	}
	targetSet := make(map[uuid.UUID]struct{}, len(target))
	for _, id := range target {
		targetSet[id] = struct{}{}
	}

	// walk receipt.Payments rather than the map so the audit detail lists
	// detached documents in a stable order
	var removed []models.PaymentRegistry
	for _, p := range receipt.Payments {
		if _, keep := targetSet[p.ID]; !keep {
			removed = append(removed, p)
		}
	}
	var addedIDs []uuid.UUID
	for _, id := range target {
		if _, have := current[id]; !have {
			addedIDs = append(addedIDs, id)
		}
	}

	// Validate every addition before detaching anything so a bad id leaves
	// the receipt untouched.
	added, err := s.validateAssignable(tx, receipt.ProviderID, addedIDs, receipt.ID)
	if err != nil {
		return err
	}

	if len(removed) > 0 {
		ids := make([]uuid.UUID, 0, len(removed))
		for _, p := range removed {
			ids = append(ids, p.ID)
		}
		if err := tx.Model(&models.PaymentRegistry{}).
			Where("id IN ?", ids).
			Update("receipt_id", nil).Error; err != nil {
			return err
		}
		detail := fmt.Sprintf("Receipt %s: detached payment(s) %s.", receipt.Folio, documentNumbers(removed))
		if err := s.writeAudit(tx, receipt.ID, models.AuditActionPaymentsModified, detail, nil, actor); err != nil {
			return err
		}
	}

	if len(added) > 0 {
		if err := tx.Model(&models.PaymentRegistry{}).
			Where("id IN ?", addedIDs).
			Update("receipt_id", receipt.ID).Error; err != nil {
			return err
		}
		detail := fmt.Sprintf("Receipt %s: attached payment(s) %s.", receipt.Folio, documentNumbers(added))
		if err := s.writeAudit(tx, receipt.ID, models.AuditActionPaymentsModified, detail, nil, actor); err != nil {
			return err
		}
	}

	return nil
}

// Void releases every assigned payment and marks the receipt VOIDED.
// Voiding is terminal; a voided receipt rejects the call with a conflict.
func (s *Service) Void(id uuid.UUID, actor string) (*models.Receipt, int64, error) {
	actor = actorOr(actor)
	var released int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var receipt models.Receipt
		if err := tx.First(&receipt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReceiptNotFound
			}
			return err
		}
		if receipt.Status == models.ReceiptStatusVoided {
			return ErrReceiptVoided
		}

		result := tx.Model(&models.PaymentRegistry{}).
			Where("receipt_id = ?", receipt.ID).
			Update("receipt_id", nil)
		if result.Error != nil {
			return result.Error
		}
		released = result.RowsAffected

		if err := tx.Model(&receipt).Update("status", models.ReceiptStatusVoided).Error; err != nil {
			return err
		}

		detail := fmt.Sprintf("Receipt %s voided, released %d payment(s).", receipt.Folio, released)
		return s.writeAudit(tx, receipt.ID, models.AuditActionVoided, detail, nil, actor)
	})
	if err != nil {
		return nil, 0, err
	}

	s.logger.WithFields(logrus.Fields{"receipt": id, "released": released}).Info("receipt voided")

	receipt, err := s.receiptRepo.GetByID(id)
	if err != nil {
		return nil, 0, err
	}
	return receipt, released, nil
}

// validateAssignable checks that every id exists, is unassigned (or already
// on the given receipt) and belongs to the provider through its service.
func (s *Service) validateAssignable(tx *gorm.DB, providerID uuid.UUID, ids []uuid.UUID, receiptID uuid.UUID) ([]models.PaymentRegistry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var payments []models.PaymentRegistry
	if err := tx.Preload("Service").Where("id IN ?", ids).Find(&payments).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.PaymentRegistry, len(payments))
	for _, p := range payments {
		byID[p.ID] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPaymentNotFound, id)
		}
		if p.ReceiptID != nil && *p.ReceiptID != receiptID {
			return nil, fmt.Errorf("%w: document %s", ErrPaymentAssigned, p.DocumentNumber)
		}
		if p.Service == nil || p.Service.ProviderID != providerID {
			return nil, fmt.Errorf("%w: document %s", ErrPaymentWrongProvider, p.DocumentNumber)
		}
	}
	return payments, nil
}

func (s *Service) writeAudit(tx *gorm.DB, receiptID uuid.UUID, action, detail string, changes interface{}, actor string) error {
	entry := models.AuditEntry{
		ID:          uuid.New(),
		ReceiptID:   receiptID,
		Action:      action,
		Detail:      detail,
		PerformedBy: actor,
	}
	if changes != nil {
		if raw, err := json.Marshal(changes); err == nil {
			entry.Changes = raw
		}
	}
	return tx.Create(&entry).Error
}

func actorOr(actor string) string {
	if actor == "" {
		return SystemActor
	}
	return actor
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func documentNumbers(payments []models.PaymentRegistry) string {
	nums := make([]string, 0, len(payments))
	for _, p := range payments {
		nums = append(nums, p.DocumentNumber)
	}
	return strings.Join(nums, ", ")
}
