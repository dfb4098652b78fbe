package payimport

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/GDiazF/sgaf/internal/models"
	"github.com/GDiazF/sgaf/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Required columns of the import sheet, matched case-insensitively
// against the header row.
var requiredColumns = []string{
	"Numero Cliente",
	"Numero Documento",
	"Monto Total",
	"Monto Interes",
	"Fecha Emision",
	"Fecha Vencimiento",
	"Fecha Pago",
}

// Date formats accepted for textual date cells, tried in order.
var dateFormats = []string{"02/01/2006", "02-01-2006", "2006-01-02"}

// RowError describes one invalid row. Any row error rejects the whole
// batch: either every row imports or none does.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Importer struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	logger      *logrus.Logger
}

func NewImporter(paymentRepo *repository.PaymentRepository, logger *logrus.Logger) *Importer {
	return &Importer{
		db:          paymentRepo.DB(),
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// Import reads an xlsx workbook, validates the header and every row, and
// creates all payment registries in one transaction. It returns either the
// created count or the full list of row errors with nothing created.
func (im *Importer) Import(r io.Reader) (int, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(rows) < 2 {
		return 0, nil, ErrEmptyWorkbook
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return 0, nil, err
	}

	var rowErrs []RowError
	var payments []models.PaymentRegistry

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if blankRow(row) {
			continue
		}

		payment, errs := im.parseRow(row, columns, rowNum)
		if len(errs) > 0 {
			rowErrs = append(rowErrs, errs...)
			continue
		}
		payments = append(payments, *payment)
	}

	if len(rowErrs) > 0 {
		im.logger.WithField("errors", len(rowErrs)).Warn("payment import rejected")
		return 0, rowErrs, nil
	}

	err = im.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&payments).Error
	})
	if err != nil {
		return 0, nil, err
	}

	im.logger.WithField("created", len(payments)).Info("payment import completed")
	return len(payments), nil, nil
}

// mapColumns resolves required header names to column indexes. All missing
// columns are reported in a single error before any row is processed.
func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		index[normalizeHeader(cell)] = i
	}

	columns := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, name := range requiredColumns {
		i, ok := index[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columns, nil
}

func (im *Importer) parseRow(row []string, columns map[string]int, rowNum int) (*models.PaymentRegistry, []RowError) {
	var errs []RowError
	fail := func(format string, args ...interface{}) {
		errs = append(errs, RowError{Row: rowNum, Message: fmt.Sprintf(format, args...)})
	}

	cell := func(name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	clientNumber := cell("Numero Cliente")
	if clientNumber == "" {
		fail("Numero Cliente is empty")
	}

	documentNumber := cell("Numero Documento")
	if documentNumber == "" {
		fail("Numero Documento is empty")
	}

	totalAmount, err := parseAmount(cell("Monto Total"))
	if err != nil {
		fail("invalid Monto Total '%s'", cell("Monto Total"))
	}
	interestAmount := int64(0)
	if v := cell("Monto Interes"); v != "" {
		interestAmount, err = parseAmount(v)
		if err != nil {
			fail("invalid Monto Interes '%s'", v)
		}
	}

	issueDate, err := parseDate(cell("Fecha Emision"))
	if err != nil {
		fail("%v", err)
	}
	dueDate, err := parseDate(cell("Fecha Vencimiento"))
	if err != nil {
		fail("%v", err)
	}
	paymentDate, err := parseDate(cell("Fecha Pago"))
	if err != nil {
		fail("%v", err)
	}

	var service *models.Service
	if clientNumber != "" {
		service, err = im.paymentRepo.FindServiceByClientNumber(clientNumber)
		if err != nil {
			fail("no service registered for client number '%s'", clientNumber)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.PaymentRegistry{
		ID:              uuid.New(),
		ServiceID:       service.ID,
		EstablishmentID: service.EstablishmentID,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		PaymentDate:     paymentDate,
		DocumentNumber:  documentNumber,
		InterestAmount:  interestAmount,
		TotalAmount:     totalAmount,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date '%s', expected DD/MM/YYYY, DD-MM-YYYY or YYYY-MM-DD", value)
}

// parseAmount reads whole-peso amounts, tolerating "$", spaces and dot
// thousand separators.
func parseAmount(value string) (int64, error) {
	cleaned := strings.NewReplacer("$", "", " ", "", ".", "").Replace(value)
	return strconv.ParseInt(cleaned, 10, 64)
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func blankRow(row []string) bool {
	return strings.Join(row, "") == ""
}
