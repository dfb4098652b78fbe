package receipt

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/GDiazF/sgaf/internal/models"
	"github.com/GDiazF/sgaf/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
		&models.Service{},
		&models.PaymentRegistry{},
		&models.Receipt{},
		&models.AuditEntry{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService(
		repository.NewReceiptRepository(db),
		repository.NewPaymentRepository(db),
		logger,
	)
	return svc, db
}

func seedProvider(t *testing.T, db *gorm.DB, name, acronym string) *models.Provider {
	t.Helper()
	provider := models.Provider{ID: uuid.New(), Name: name}
	if acronym != "" {
		pt := models.ProviderType{ID: uuid.New(), Name: name + " type", Acronym: acronym}
		require.NoError(t, db.Create(&pt).Error)
		provider.ProviderTypeID = &pt.ID
	}
	require.NoError(t, db.Create(&provider).Error)
	return &provider
}

func seedPayment(t *testing.T, db *gorm.DB, provider *models.Provider, documentNumber string) *models.PaymentRegistry {
	t.Helper()
	est := models.Establishment{ID: uuid.New(), RBD: 1000, Name: "Escuela " + documentNumber, Active: true}
	require.NoError(t, db.Create(&est).Error)
	svc := models.Service{
		ID:              uuid.New(),
		ProviderID:      provider.ID,
		EstablishmentID: est.ID,
		ClientNumber:    "C-" + documentNumber,
	}
	require.NoError(t, db.Create(&svc).Error)
	payment := models.PaymentRegistry{
		ID:              uuid.New(),
		ServiceID:       svc.ID,
		EstablishmentID: est.ID,
		IssueDate:       time.Now(),
		DueDate:         time.Now().AddDate(0, 1, 0),
		PaymentDate:     time.Now(),
		DocumentNumber:  documentNumber,
		TotalAmount:     150000,
	}
	require.NoError(t, db.Create(&payment).Error)
	return &payment
}

func auditActions(t *testing.T, db *gorm.DB, receiptID uuid.UUID) []models.AuditEntry {
	t.Helper()
	var entries []models.AuditEntry
	require.NoError(t, db.Where("receipt_id = ?", receiptID).Order("created_at ASC, id ASC").Find(&entries).Error)
	return entries
}

func TestCreateGeneratesSequentialFolios(t *testing.T) {
	svc, db := newTestService(t)
	acme := seedProvider(t, db, "ACME", "AC")
	year := time.Now().Year()

	first, err := svc.Create(acme.ID, nil, "", nil, "")
	require.NoError(t, err)
	second, err := svc.Create(acme.ID, nil, "", nil, "")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("AC-%d-0001", year), first.Folio)
	assert.Equal(t, fmt.Sprintf("AC-%d-0002", year), second.Folio)
}

func TestCreateUsesDefaultPrefixWithoutAcronym(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "Sin Tipo", "")

	created, err := svc.Create(provider.ID, nil, "", nil, "")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("DAEM-%d-0001", time.Now().Year()), created.Folio)
}

func TestFolioSequencesAreIndependentPerPrefix(t *testing.T) {
	svc, db := newTestService(t)
	acme := seedProvider(t, db, "ACME", "AC")
	other := seedProvider(t, db, "Electro", "EL")
	year := time.Now().Year()

	_, err := svc.Create(acme.ID, nil, "", nil, "")
	require.NoError(t, err)
	created, err := svc.Create(other.ID, nil, "", nil, "")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("EL-%d-0001", year), created.Folio)
}

func TestCreateAttachesPaymentsAndWritesAudit(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")
	p1 := seedPayment(t, db, provider, "F-001")
	p2 := seedPayment(t, db, provider, "F-002")

	created, err := svc.Create(provider.ID, []uuid.UUID{p1.ID, p2.ID}, "agosto", nil, "gdiaz")
	require.NoError(t, err)
	require.Len(t, created.Payments, 2)

	var reloaded models.PaymentRegistry
	require.NoError(t, db.First(&reloaded, "id = ?", p1.ID).Error)
	require.NotNil(t, reloaded.ReceiptID)
	assert.Equal(t, created.ID, *reloaded.ReceiptID)

	entries := auditActions(t, db, created.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionCreated, entries[0].Action)
	assert.Equal(t, "gdiaz", entries[0].PerformedBy)
	assert.Contains(t, entries[0].Detail, "2 payment(s)")
}

func TestCreateDefaultsActorToSystem(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")

	created, err := svc.Create(provider.ID, nil, "", nil, "")
	require.NoError(t, err)

	entries := auditActions(t, db, created.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, SystemActor, entries[0].PerformedBy)
}

func TestCreateRejectsPaymentAssignedElsewhere(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")
	payment := seedPayment(t, db, provider, "F-001")

	first, err := svc.Create(provider.ID, []uuid.UUID{payment.ID}, "", nil, "")
	require.NoError(t, err)

	_, err = svc.Create(provider.ID, []uuid.UUID{payment.ID}, "", nil, "")
	require.ErrorIs(t, err, ErrPaymentAssigned)
	assert.Contains(t, err.Error(), "F-001")

	// first assignment untouched, no second receipt created
	var reloaded models.PaymentRegistry
	require.NoError(t, db.First(&reloaded, "id = ?", payment.ID).Error)
	require.NotNil(t, reloaded.ReceiptID)
	assert.Equal(t, first.ID, *reloaded.ReceiptID)

	var count int64
	require.NoError(t, db.Model(&models.Receipt{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateRejectsForeignProviderPayment(t *testing.T) {
	svc, db := newTestService(t)
	acme := seedProvider(t, db, "ACME", "AC")
	other := seedProvider(t, db, "Electro", "EL")
	payment := seedPayment(t, db, other, "F-009")

	_, err := svc.Create(acme.ID, []uuid.UUID{payment.ID}, "", nil, "")
	require.ErrorIs(t, err, ErrPaymentWrongProvider)
	assert.Contains(t, err.Error(), "F-009")
}

func TestCreateRejectsUnknownPayment(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")

	_, err := svc.Create(provider.ID, []uuid.UUID{uuid.New()}, "", nil, "")
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestCreateRejectsUnknownProvider(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(uuid.New(), nil, "", nil, "")
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestUpdateReplacesPaymentSet(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")
	p1 := seedPayment(t, db, provider, "F-001")
	p2 := seedPayment(t, db, provider, "F-002")
	p3 := seedPayment(t, db, provider, "F-003")
	p4 := seedPayment(t, db, provider, "F-004")

	created, err := svc.Create(provider.ID, []uuid.UUID{p1.ID, p2.ID, p3.ID}, "", nil, "")
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, UpdateInput{
		PaymentIDs:  []uuid.UUID{p1.ID, p3.ID, p4.ID},
		HasPayments: true,
	}, "gdiaz")
	require.NoError(t, err)

	got := make(map[uuid.UUID]bool)
	for _, p := range updated.Payments {
		got[p.ID] = true
	}
	assert.Equal(t, map[uuid.UUID]bool{p1.ID: true, p3.ID: true, p4.ID: true}, got)

	var detached models.PaymentRegistry
	require.NoError(t, db.First(&detached, "id = ?", p2.ID).Error)
	assert.Nil(t, detached.ReceiptID)

	entries := auditActions(t, db, created.ID)
	require.Len(t, entries, 3) // CREATED + detach + attach
	assert.Equal(t, models.AuditActionPaymentsModified, entries[1].Action)
	assert.Contains(t, entries[1].Detail, "F-002")
	assert.Equal(t, models.AuditActionPaymentsModified, entries[2].Action)
	assert.Contains(t, entries[2].Detail, "F-004")
}

func TestUpdateDetachedPaymentStaysDetached(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")
	p1 := seedPayment(t, db, provider, "F-001")
	p2 := seedPayment(t, db, provider, "F-002")

	created, err := svc.Create(provider.ID, []uuid.UUID{p1.ID, p2.ID}, "", nil, "")
	require.NoError(t, err)

	// observation edit and removal in the same call: the field update and
	// the closing timestamp touch must not restore p2's assignment
	obs := "revisado"
	updated, err := svc.Update(created.ID, UpdateInput{
		Observations: &obs,
		PaymentIDs:   []uuid.UUID{p1.ID},
		HasPayments:  true,
	}, "gdiaz")
	require.NoError(t, err)
	require.Len(t, updated.Payments, 1)
	assert.Equal(t, p1.ID, updated.Payments[0].ID)

	var detached models.PaymentRegistry
	require.NoError(t, db.First(&detached, "id = ?", p2.ID).Error)
	assert.Nil(t, detached.ReceiptID)
}

func TestUpdateDetachAuditListsDocumentsInOrder(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")
	p1 := seedPayment(t, db, provider, "F-001")
	p2 := seedPayment(t, db, provider, "F-002")
	p3 := seedPayment(t, db, provider, "F-003")

	created, err := svc.Create(provider.ID, []uuid.UUID{p1.ID, p2.ID, p3.ID}, "", nil, "")
	require.NoError(t, err)

	_, err = svc.Update(created.ID, UpdateInput{
		PaymentIDs:  []uuid.UUID{p2.ID},
		HasPayments: true,
	}, "")
	require.NoError(t, err)

	entries := auditActions(t, db, created.ID)
	require.Len(t, entries, 2)
	detail := entries[1].Detail
	assert.Contains(t, detail, "F-001")
	assert.Contains(t, detail, "F-003")
	assert.Less(t, strings.Index(detail, "F-001"), strings.Index(detail, "F-003"))
}

func TestUpdateRejectsInvalidAdditionWithoutDetaching(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")
	p1 := seedPayment(t, db, provider, "F-001")
	p2 := seedPayment(t, db, provider, "F-002")

	created, err := svc.Create(provider.ID, []uuid.UUID{p1.ID, p2.ID}, "", nil, "")
	require.NoError(t, err)

	// drop p2, add a payment that does not exist -> whole update fails
	_, err = svc.Update(created.ID, UpdateInput{
		PaymentIDs:  []uuid.UUID{p1.ID, uuid.New()},
		HasPayments: true,
	}, "")
	require.ErrorIs(t, err, ErrPaymentNotFound)

	var still models.PaymentRegistry
	require.NoError(t, db.First(&still, "id = ?", p2.ID).Error)
	require.NotNil(t, still.ReceiptID)
	assert.Equal(t, created.ID, *still.ReceiptID)
}

func TestUpdateTracksObservationChanges(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")

	created, err := svc.Create(provider.ID, nil, "original", nil, "")
	require.NoError(t, err)

	obs := "corregido"
	updated, err := svc.Update(created.ID, UpdateInput{Observations: &obs}, "gdiaz")
	require.NoError(t, err)
	assert.Equal(t, "corregido", updated.Observations)

	entries := auditActions(t, db, created.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditActionModified, entries[1].Action)
	assert.Contains(t, entries[1].Detail, "'original' -> 'corregido'")
	assert.NotEmpty(t, entries[1].Changes)
}

func TestUpdateSameObservationWritesNoAudit(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")

	created, err := svc.Create(provider.ID, nil, "igual", nil, "")
	require.NoError(t, err)

	obs := "igual"
	_, err = svc.Update(created.ID, UpdateInput{Observations: &obs}, "")
	require.NoError(t, err)

	assert.Len(t, auditActions(t, db, created.ID), 1)
}

func TestUpdateRejectedWhenVoided(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")

	created, err := svc.Create(provider.ID, nil, "", nil, "")
	require.NoError(t, err)
	_, _, err = svc.Void(created.ID, "")
	require.NoError(t, err)

	obs := "tarde"
	_, err = svc.Update(created.ID, UpdateInput{Observations: &obs}, "")
	require.ErrorIs(t, err, ErrReceiptVoided)
}

func TestVoidReleasesAllPayments(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")
	p1 := seedPayment(t, db, provider, "F-001")
	p2 := seedPayment(t, db, provider, "F-002")
	p3 := seedPayment(t, db, provider, "F-003")

	created, err := svc.Create(provider.ID, []uuid.UUID{p1.ID, p2.ID, p3.ID}, "", nil, "")
	require.NoError(t, err)

	voided, released, err := svc.Void(created.ID, "gdiaz")
	require.NoError(t, err)
	assert.EqualValues(t, 3, released)
	assert.Equal(t, models.ReceiptStatusVoided, voided.Status)

	var assigned int64
	require.NoError(t, db.Model(&models.PaymentRegistry{}).
		Where("receipt_id = ?", created.ID).Count(&assigned).Error)
	assert.EqualValues(t, 0, assigned)

	entries := auditActions(t, db, created.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditActionVoided, entries[1].Action)
	assert.Contains(t, entries[1].Detail, "3 payment(s)")
}

func TestVoidIsTerminal(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")

	created, err := svc.Create(provider.ID, nil, "", nil, "")
	require.NoError(t, err)
	_, _, err = svc.Void(created.ID, "")
	require.NoError(t, err)

	_, _, err = svc.Void(created.ID, "")
	require.ErrorIs(t, err, ErrReceiptVoided)

	// no extra audit entry from the rejected attempt
	assert.Len(t, auditActions(t, db, created.ID), 2)
}

func TestVoidLeavesOtherReceiptsUntouched(t *testing.T) {
	svc, db := newTestService(t)
	provider := seedProvider(t, db, "ACME", "AC")
	p1 := seedPayment(t, db, provider, "F-001")
	p2 := seedPayment(t, db, provider, "F-002")
	year := time.Now().Year()

	first, err := svc.Create(provider.ID, []uuid.UUID{p1.ID}, "", nil, "")
	require.NoError(t, err)
	second, err := svc.Create(provider.ID, []uuid.UUID{p2.ID}, "", nil, "")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("AC-%d-0001", year), first.Folio)
	assert.Equal(t, fmt.Sprintf("AC-%d-0002", year), second.Folio)

	_, _, err = svc.Void(first.ID, "")
	require.NoError(t, err)

	var other models.Receipt
	require.NoError(t, db.First(&other, "id = ?", second.ID).Error)
	assert.Equal(t, models.ReceiptStatusIssued, other.Status)

	var stillAssigned models.PaymentRegistry
	require.NoError(t, db.First(&stillAssigned, "id = ?", p2.ID).Error)
	require.NotNil(t, stillAssigned.ReceiptID)
	assert.Equal(t, second.ID, *stillAssigned.ReceiptID)
}
