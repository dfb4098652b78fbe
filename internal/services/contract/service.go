package contract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GDiazF/sgaf/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("contract not found")
	ErrDuplicateCode = errors.New("public market code already registered")
)

// SystemActor is recorded when no acting user is supplied.
const SystemActor = "system"

// Service persists contracts and writes their field-level change history.
// History emission is an explicit call inside each mutating operation, not
// an implicit save hook.
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) Create(contract *models.Contract, actor string) (*models.Contract, error) {
	contract.ID = uuid.New()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrDuplicateCode, contract.PublicMarketCode)
			}
			return err
		}
		return s.writeHistory(tx, contract.ID, models.ContractAuditCreated,
			fmt.Sprintf("Contract %s created.", contract.PublicMarketCode), actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithField("code", contract.PublicMarketCode).Info("contract created")
	return contract, nil
}

// Update applies partial changes and records one history entry listing
// every field that actually changed, old value against new.
func (s *Service) Update(id uuid.UUID, changes map[string]interface{}, actor string) (*models.Contract, error) {
	var updated models.Contract

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var current models.Contract
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		diff := diffFields(&current, changes)
		if len(changes) > 0 {
			if err := tx.Model(&current).Updates(changes).Error; err != nil {
				return err
			}
		}
		if len(diff) > 0 {
			detail := fmt.Sprintf("Contract %s modified: %s.", current.PublicMarketCode, strings.Join(diff, ", "))
			if err := s.writeHistory(tx, current.ID, models.ContractAuditModified, detail, actor); err != nil {
				return err
			}
		}

		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Get(id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	err := s.db.Preload("Provider").First(&contract, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (s *Service) List() ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.Preload("Provider").Order("start_date DESC").Find(&contracts).Error
	return contracts, err
}

// History returns a contract's change log, newest first.
func (s *Service) History(id uuid.UUID) ([]models.ContractHistory, error) {
	var entries []models.ContractHistory
	err := s.db.Where("contract_id = ?", id).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (s *Service) writeHistory(tx *gorm.DB, contractID uuid.UUID, action, detail, actor string) error {
	if actor == "" {
		actor = SystemActor
	}
	return tx.Create(&models.ContractHistory{
		ID:          uuid.New(),
		ContractID:  contractID,
		Action:      action,
		Detail:      detail,
		PerformedBy: actor,
	}).Error
}

// trackedFields maps updatable column names to the accessor used to read
// the current value for diffing.
var trackedFields = map[string]func(*models.Contract) string{
	"description":  func(c *models.Contract) string { return c.Description },
	"process_type": func(c *models.Contract) string { return c.ProcessType },
	"status":       func(c *models.Contract) string { return c.Status },
	"category":     func(c *models.Contract) string { return c.Category },
	"order_type":   func(c *models.Contract) string { return c.OrderType },
	"order_number": func(c *models.Contract) string { return deref(c.OrderNumber) },
	"cdp":          func(c *models.Contract) string { return deref(c.CDP) },
	"total_amount": func(c *models.Contract) string { return fmt.Sprintf("%d", c.TotalAmount) },
	"award_date":   func(c *models.Contract) string { return c.AwardDate.Format("2006-01-02") },
	"start_date":   func(c *models.Contract) string { return c.StartDate.Format("2006-01-02") },
	"end_date":     func(c *models.Contract) string { return c.EndDate.Format("2006-01-02") },
}

// trackedOrder fixes the order of diff lines in history entries.
var trackedOrder = []string{
	"description", "process_type", "status", "category", "order_type",
	"order_number", "cdp", "total_amount", "award_date", "start_date", "end_date",
}

func diffFields(current *models.Contract, changes map[string]interface{}) []string {
	var diff []string
	for _, field := range trackedOrder {
		value, ok := changes[field]
		if !ok {
			continue
		}
		read := trackedFields[field]
		oldVal := read(current)
		newVal := stringify(value)
		if oldVal != newVal {
			diff = append(diff, fmt.Sprintf("%s: '%s' -> '%s'", field, oldVal, newVal))
		}
	}
	return diff
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case *string:
		return deref(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
