package handler

import (
	"net/http"

	"github.com/GDiazF/sgaf/internal/repository"
	service "github.com/GDiazF/sgaf/internal/services/receipt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReceiptHandler struct {
	service     *service.Service
	receiptRepo *repository.ReceiptRepository
}

func NewReceiptHandler(s *service.Service, receiptRepo *repository.ReceiptRepository) *ReceiptHandler {
	return &ReceiptHandler{service: s, receiptRepo: receiptRepo}
}

func (h *ReceiptHandler) List(c *gin.Context) {
	var providerID *uuid.UUID
	if v := c.Query("provider"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider ID"})
			return
		}
		providerID = &id
	}

	receipts, err := h.receiptRepo.List(providerID, c.Query("status"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": receipts})
}

func (h *ReceiptHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt ID"})
		return
	}

	receipt, err := h.receiptRepo.GetByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *ReceiptHandler) Create(c *gin.Context) {
	var payload struct {
		ProviderID   string   `json:"provider_id" binding:"required"`
		PaymentIDs   []string `json:"payment_ids"`
		Observations string   `json:"observations"`
		SignedBy     *string  `json:"signed_by"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	providerID, err := uuid.Parse(payload.ProviderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider ID"})
		return
	}
	paymentIDs, err := parseUUIDs(payload.PaymentIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment ID"})
		return
	}

	receipt, err := h.service.Create(providerID, paymentIDs, payload.Observations, payload.SignedBy, actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *ReceiptHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt ID"})
		return
	}

	var payload struct {
		Observations *string   `json:"observations"`
		SignedBy     *string   `json:"signed_by"`
		PaymentIDs   *[]string `json:"payment_ids"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	input := service.UpdateInput{
		Observations: payload.Observations,
		SignedBy:     payload.SignedBy,
	}
	if payload.PaymentIDs != nil {
		ids, err := parseUUIDs(*payload.PaymentIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment ID"})
			return
		}
		input.PaymentIDs = ids
		input.HasPayments = true
	}

	receipt, err := h.service.Update(id, input, actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *ReceiptHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt ID"})
		return
	}

	receipt, released, err := h.service.Void(id, actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"receipt":           receipt,
		"released_payments": released,
	})
}

func (h *ReceiptHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt ID"})
		return
	}

	entries, err := h.receiptRepo.History(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
