package payimport

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/GDiazF/sgaf/internal/models"
	"github.com/GDiazF/sgaf/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var fullHeader = []interface{}{
	"Numero Cliente", "Numero Documento", "Monto Total", "Monto Interes",
	"Fecha Emision", "Fecha Vencimiento", "Fecha Pago",
}

func newTestImporter(t *testing.T) (*Importer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Establishment{},
		&models.ProviderType{},
		&models.Provider{},
		&models.DocumentType{},
		&models.Service{},
		&models.PaymentRegistry{},
	))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewImporter(repository.NewPaymentRepository(db), logger), db
}

func seedService(t *testing.T, db *gorm.DB, clientNumber string) *models.Service {
	t.Helper()
	provider := models.Provider{ID: uuid.New(), Name: "CGE"}
	require.NoError(t, db.Create(&provider).Error)
	est := models.Establishment{ID: uuid.New(), RBD: 2000, Name: "Liceo A", Active: true}
	require.NoError(t, db.Create(&est).Error)
	svc := models.Service{
		ID:              uuid.New(),
		ProviderID:      provider.ID,
		EstablishmentID: est.ID,
		ClientNumber:    clientNumber,
	}
	require.NoError(t, db.Create(&svc).Error)
	return &svc
}

func workbook(t *testing.T, header []interface{}, rows ...[]interface{}) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImportCreatesAllRows(t *testing.T) {
	importer, db := newTestImporter(t)
	seedService(t, db, "777001")
	seedService(t, db, "777002")

	created, rowErrs, err := importer.Import(workbook(t, fullHeader,
		[]interface{}{"777001", "F-100", "45000", "0", "01/07/2026", "31/07/2026", "15/07/2026"},
		[]interface{}{"777002", "F-101", "128990", "1200", "02-07-2026", "2026-08-01", "20/07/2026"},
	))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Equal(t, 2, created)

	var payment models.PaymentRegistry
	require.NoError(t, db.First(&payment, "document_number = ?", "F-101").Error)
	assert.EqualValues(t, 128990, payment.TotalAmount)
	assert.EqualValues(t, 1200, payment.InterestAmount)
	assert.Equal(t, "2026-07-02", payment.IssueDate.Format("2006-01-02"))
	assert.Equal(t, "2026-08-01", payment.DueDate.Format("2006-01-02"))
	assert.Nil(t, payment.ReceiptID)
}

func TestImportMissingColumnRejectsBatch(t *testing.T) {
	importer, db := newTestImporter(t)
	seedService(t, db, "777001")

	header := []interface{}{
		"Numero Cliente", "Numero Documento", "Monto Interes",
		"Fecha Emision", "Fecha Vencimiento", "Fecha Pago",
	}
	_, _, err := importer.Import(workbook(t, header,
		[]interface{}{"777001", "F-100", "0", "01/07/2026", "31/07/2026", "15/07/2026"},
	))
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Monto Total")

	var count int64
	require.NoError(t, db.Model(&models.PaymentRegistry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestImportReportsAllMissingColumnsAtOnce(t *testing.T) {
	importer, _ := newTestImporter(t)

	header := []interface{}{"Numero Cliente", "Fecha Emision", "Fecha Vencimiento", "Fecha Pago"}
	_, _, err := importer.Import(workbook(t, header, []interface{}{"777001", "01/07/2026", "31/07/2026", "15/07/2026"}))
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Numero Documento")
	assert.Contains(t, err.Error(), "Monto Total")
	assert.Contains(t, err.Error(), "Monto Interes")
}

func TestImportHeaderMatchIsCaseInsensitive(t *testing.T) {
	importer, db := newTestImporter(t)
	seedService(t, db, "777001")

	header := []interface{}{
		"NUMERO CLIENTE", "numero documento", "MONTO TOTAL", "monto interes",
		"fecha emision", "FECHA VENCIMIENTO", "Fecha Pago",
	}
	created, rowErrs, err := importer.Import(workbook(t, header,
		[]interface{}{"777001", "F-100", "45000", "0", "01/07/2026", "31/07/2026", "15/07/2026"},
	))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Equal(t, 1, created)
}

func TestImportInvalidDateRejectsWholeBatch(t *testing.T) {
	importer, db := newTestImporter(t)
	seedService(t, db, "777001")
	seedService(t, db, "777002")

	created, rowErrs, err := importer.Import(workbook(t, fullHeader,
		[]interface{}{"777001", "F-100", "45000", "0", "01/07/2026", "31/07/2026", "15/07/2026"},
		[]interface{}{"777002", "F-101", "50000", "0", "07/31/2026", "31/08/2026", "15/08/2026"},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 3, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Message, "07/31/2026")
	assert.Contains(t, rowErrs[0].Message, "DD/MM/YYYY")

	// valid first row must not have been created either
	var count int64
	require.NoError(t, db.Model(&models.PaymentRegistry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestImportUnknownClientNumberIsRowError(t *testing.T) {
	importer, _ := newTestImporter(t)

	created, rowErrs, err := importer.Import(workbook(t, fullHeader,
		[]interface{}{"999999", "F-100", "45000", "0", "01/07/2026", "31/07/2026", "15/07/2026"},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	require.Len(t, rowErrs, 1)
	assert.Contains(t, rowErrs[0].Message, "999999")
}

func TestImportToleratesFormattedAmounts(t *testing.T) {
	importer, db := newTestImporter(t)
	seedService(t, db, "777001")

	created, rowErrs, err := importer.Import(workbook(t, fullHeader,
		[]interface{}{"777001", "F-100", "$1.250.000", "0", "01/07/2026", "31/07/2026", "15/07/2026"},
	))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Equal(t, 1, created)

	var payment models.PaymentRegistry
	require.NoError(t, db.First(&payment, "document_number = ?", "F-100").Error)
	assert.EqualValues(t, 1250000, payment.TotalAmount)
}

func TestImportSkipsBlankRows(t *testing.T) {
	importer, db := newTestImporter(t)
	seedService(t, db, "777001")

	created, rowErrs, err := importer.Import(workbook(t, fullHeader,
		[]interface{}{"777001", "F-100", "45000", "0", "01/07/2026", "31/07/2026", "15/07/2026"},
		[]interface{}{"", "", "", "", "", "", ""},
	))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Equal(t, 1, created)
	_ = db
}

func TestImportEmptyWorkbook(t *testing.T) {
	importer, _ := newTestImporter(t)

	_, _, err := importer.Import(workbook(t, fullHeader))
	require.ErrorIs(t, err, ErrEmptyWorkbook)
}
