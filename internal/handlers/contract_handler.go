package handler

import (
	"net/http"

	"github.com/GDiazF/sgaf/internal/models"
	service "github.com/GDiazF/sgaf/internal/services/contract"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContractHandler struct {
	service *service.Service
}

func NewContractHandler(s *service.Service) *ContractHandler {
	return &ContractHandler{service: s}
}

func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.service.List()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": contracts})
}

func (h *ContractHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract ID"})
		return
	}

	contract, err := h.service.Get(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) Create(c *gin.Context) {
	var payload struct {
		PublicMarketCode string  `json:"public_market_code" binding:"required"`
		Description      string  `json:"description" binding:"required"`
		ProviderID       *string `json:"provider_id"`
		ProcessType      string  `json:"process_type"`
		Status           string  `json:"status"`
		Category         string  `json:"category"`
		OrderType        string  `json:"order_type"`
		OrderNumber      *string `json:"order_number"`
		CDP              *string `json:"cdp"`
		TotalAmount      int64   `json:"total_amount"`
		AwardDate        string  `json:"award_date" binding:"required"`
		StartDate        string  `json:"start_date" binding:"required"`
		EndDate          string  `json:"end_date" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	awardDate, err := parseInputDate(payload.AwardDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid award_date"})
		return
	}
	startDate, err := parseInputDate(payload.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	endDate, err := parseInputDate(payload.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	contract := models.Contract{
		PublicMarketCode: payload.PublicMarketCode,
		Description:      payload.Description,
		ProcessType:      payload.ProcessType,
		Status:           payload.Status,
		Category:         payload.Category,
		OrderType:        payload.OrderType,
		OrderNumber:      payload.OrderNumber,
		CDP:              payload.CDP,
		TotalAmount:      payload.TotalAmount,
		AwardDate:        awardDate,
		StartDate:        startDate,
		EndDate:          endDate,
	}
	if contract.OrderType == "" {
		contract.OrderType = models.ContractOrderSingle
	}
	if payload.ProviderID != nil {
		providerID, err := uuid.Parse(*payload.ProviderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider ID"})
			return
		}
		contract.ProviderID = &providerID
	}

	created, err := h.service.Create(&contract, actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContractHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract ID"})
		return
	}

	var payload map[string]interface{}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	// only whitelisted columns reach the update
	changes := map[string]interface{}{}
	for _, field := range []string{
		"description", "process_type", "status", "category", "order_type",
		"order_number", "cdp", "total_amount", "award_date", "start_date", "end_date",
	} {
		v, ok := payload[field]
		if !ok {
			continue
		}
		switch field {
		case "award_date", "start_date", "end_date":
			s, ok := v.(string)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
				return
			}
			t, err := parseInputDate(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
				return
			}
			changes[field] = t
		case "total_amount":
			n, ok := v.(float64)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid total_amount"})
				return
			}
			changes[field] = int64(n)
		default:
			changes[field] = v
		}
	}

	contract, err := h.service.Update(id, changes, actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract ID"})
		return
	}

	entries, err := h.service.History(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}
