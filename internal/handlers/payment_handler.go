package handler

import (
	"net/http"

	"github.com/GDiazF/sgaf/internal/models"
	"github.com/GDiazF/sgaf/internal/repository"
	"github.com/GDiazF/sgaf/internal/services/payimport"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentRepo *repository.PaymentRepository
	importer    *payimport.Importer
}

func NewPaymentHandler(paymentRepo *repository.PaymentRepository, importer *payimport.Importer) *PaymentHandler {
	return &PaymentHandler{paymentRepo: paymentRepo, importer: importer}
}

func (h *PaymentHandler) List(c *gin.Context) {
	establishmentID, err := optionalUUID(c.Query("establishment"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid establishment ID"})
		return
	}
	serviceID, err := optionalUUID(c.Query("service"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service ID"})
		return
	}

	var payments []models.PaymentRegistry
	if c.Query("unassigned") == "true" {
		providerID, perr := optionalUUID(c.Query("provider"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider ID"})
			return
		}
		payments, err = h.paymentRepo.ListUnassigned(providerID)
	} else {
		payments, err = h.paymentRepo.List(establishmentID, serviceID)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": payments})
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var payload struct {
		ServiceID       string `json:"service_id" binding:"required"`
		EstablishmentID string `json:"establishment_id" binding:"required"`
		IssueDate       string `json:"issue_date" binding:"required"`
		DueDate         string `json:"due_date" binding:"required"`
		PaymentDate     string `json:"payment_date" binding:"required"`
		DocumentNumber  string `json:"document_number" binding:"required"`
		Amount          int64  `json:"amount"`
		InterestAmount  int64  `json:"interest_amount"`
		TotalAmount     int64  `json:"total_amount" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	serviceID, err := uuid.Parse(payload.ServiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service ID"})
		return
	}
	establishmentID, err := uuid.Parse(payload.EstablishmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid establishment ID"})
		return
	}

	issueDate, err := parseInputDate(payload.IssueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue_date, expected DD/MM/YYYY, DD-MM-YYYY or YYYY-MM-DD"})
		return
	}
	dueDate, err := parseInputDate(payload.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date, expected DD/MM/YYYY, DD-MM-YYYY or YYYY-MM-DD"})
		return
	}
	paymentDate, err := parseInputDate(payload.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_date, expected DD/MM/YYYY, DD-MM-YYYY or YYYY-MM-DD"})
		return
	}

	payment := models.PaymentRegistry{
		ID:              uuid.New(),
		ServiceID:       serviceID,
		EstablishmentID: establishmentID,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		PaymentDate:     paymentDate,
		DocumentNumber:  payload.DocumentNumber,
		Amount:          payload.Amount,
		InterestAmount:  payload.InterestAmount,
		TotalAmount:     payload.TotalAmount,
	}
	if err := h.paymentRepo.DB().Create(&payment).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// Import receives an xlsx workbook and bulk-creates payment registries.
// Row errors reject the whole batch and are returned as a list.
func (h *PaymentHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	created, rowErrs, err := h.importer.Import(file)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(rowErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"file":   header.Filename,
			"errors": rowErrs,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file":    header.Filename,
		"created": created,
	})
}

func optionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
