package keyloan

import (
	"errors"
	"fmt"
	"time"

	"github.com/GDiazF/sgaf/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmptySelection    = errors.New("at least one key must be selected")
	ErrKeyNotFound       = errors.New("key not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrKeyUnavailable    = errors.New("key is already on loan")
	ErrAlreadyReturned   = errors.New("loan already returned")
	ErrApplicantNotFound = errors.New("applicant not found")
)

// Service manages physical key loans. A loan is active while ReturnedAt is
// null; a key is available iff it has no active loan.
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CreateLoans opens one loan per key for a single applicant. The batch is
// all-or-nothing: every key is validated as existing and available before
// any loan row is written, inside one transaction.
func (s *Service) CreateLoans(keyIDs []uuid.UUID, applicantID uuid.UUID, observation, deliveredBy string) ([]models.KeyLoan, error) {
	if len(keyIDs) == 0 {
		return nil, ErrEmptySelection
	}

	var created []models.KeyLoan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var applicant models.Applicant
		if err := tx.First(&applicant, "id = ?", applicantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicantNotFound
			}
			return err
		}

		for _, keyID := range keyIDs {
			var key models.Key
			if err := tx.First(&key, "id = ?", keyID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrKeyNotFound, keyID)
				}
				return err
			}

			var active int64
			if err := tx.Model(&models.KeyLoan{}).
				Where("key_id = ? AND returned_at IS NULL", keyID).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				return fmt.Errorf("%w: %s", ErrKeyUnavailable, key.Name)
			}
		}

		now := time.Now()
		for _, keyID := range keyIDs {
			loan := models.KeyLoan{
				ID:          uuid.New(),
				KeyID:       keyID,
				ApplicantID: applicantID,
				LoanedAt:    now,
				Observation: observation,
				DeliveredBy: deliveredBy,
			}
			if err := tx.Create(&loan).Error; err != nil {
				return err
			}
			created = append(created, loan)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"applicant": applicantID, "keys": len(created)}).Info("key loans created")
	return created, nil
}

// Return closes a loan. Returning an already-returned loan is rejected.
func (s *Service) Return(loanID uuid.UUID, receivedBy string) (*models.KeyLoan, error) {
	var loan models.KeyLoan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, "id = ?", loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.ReturnedAt != nil {
			return ErrAlreadyReturned
		}

		now := time.Now()
		loan.ReturnedAt = &now
		loan.ReceivedBy = receivedBy
		return tx.Model(&loan).Updates(map[string]interface{}{
			"returned_at": now,
			"received_by": receivedBy,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// List returns loans newest first; activeOnly keeps open loans.
func (s *Service) List(activeOnly bool) ([]models.KeyLoan, error) {
	var loans []models.KeyLoan
	query := s.db.Preload("Key").Preload("Applicant").Order("loaned_at DESC")
	if activeOnly {
		query = query.Where("returned_at IS NULL")
	}
	err := query.Find(&loans).Error
	return loans, err
}

// Available reports whether a key has no active loan.
func (s *Service) Available(keyID uuid.UUID) (bool, error) {
	var key models.Key
	if err := s.db.First(&key, "id = ?", keyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrKeyNotFound
		}
		return false, err
	}

	var active int64
	err := s.db.Model(&models.KeyLoan{}).
		Where("key_id = ? AND returned_at IS NULL", keyID).
		Count(&active).Error
	if err != nil {
		return false, err
	}
	return active == 0, nil
}
