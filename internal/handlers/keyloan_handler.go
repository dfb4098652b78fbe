package handler

import (
	"net/http"

	"github.com/GDiazF/sgaf/internal/models"
	service "github.com/GDiazF/sgaf/internal/services/keyloan"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KeyLoanHandler struct {
	db      *gorm.DB
	service *service.Service
}

func NewKeyLoanHandler(db *gorm.DB, s *service.Service) *KeyLoanHandler {
	return &KeyLoanHandler{db: db, service: s}
}

func (h *KeyLoanHandler) ListKeys(c *gin.Context) {
	establishmentID, err := optionalUUID(c.Query("establishment"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid establishment ID"})
		return
	}

	var keys []models.Key
	query := h.db.Preload("Establishment").Order("name ASC")
	if establishmentID != nil {
		query = query.Where("establishment_id = ?", *establishmentID)
	}
	if err := query.Find(&keys).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": keys})
}

func (h *KeyLoanHandler) CreateKey(c *gin.Context) {
	var payload struct {
		Name            string `json:"name" binding:"required"`
		EstablishmentID string `json:"establishment_id" binding:"required"`
		Location        string `json:"location"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	establishmentID, err := uuid.Parse(payload.EstablishmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid establishment ID"})
		return
	}

	key := models.Key{
		ID:              uuid.New(),
		Name:            payload.Name,
		EstablishmentID: establishmentID,
		Location:        payload.Location,
	}
	if err := h.db.Create(&key).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, key)
}

// Availability reports whether a key is free to lend: no active loan.
func (h *KeyLoanHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key ID"})
		return
	}

	available, err := h.service.Available(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key_id": id, "available": available})
}

func (h *KeyLoanHandler) ListApplicants(c *gin.Context) {
	var applicants []models.Applicant
	query := h.db.Order("last_name ASC")
	if v := c.Query("rut"); v != "" {
		query = query.Where("rut = ?", v)
	}
	if err := query.Find(&applicants).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": applicants})
}

func (h *KeyLoanHandler) CreateApplicant(c *gin.Context) {
	var payload struct {
		RUT       string `json:"rut" binding:"required"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	applicant := models.Applicant{
		ID:        uuid.New(),
		RUT:       payload.RUT,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Email:     payload.Email,
	}
	if err := h.db.Create(&applicant).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, applicant)
}

func (h *KeyLoanHandler) ListLoans(c *gin.Context) {
	loans, err := h.service.List(c.Query("active") == "true")
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": loans})
}

// CreateLoans opens one loan per requested key, all-or-nothing.
func (h *KeyLoanHandler) CreateLoans(c *gin.Context) {
	var payload struct {
		KeyIDs      []string `json:"key_ids" binding:"required"`
		ApplicantID string   `json:"applicant_id" binding:"required"`
		Observation string   `json:"observation"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	keyIDs, err := parseUUIDs(payload.KeyIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key ID"})
		return
	}
	applicantID, err := uuid.Parse(payload.ApplicantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid applicant ID"})
		return
	}

	loans, err := h.service.CreateLoans(keyIDs, applicantID, payload.Observation, actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": loans})
}

func (h *KeyLoanHandler) ReturnLoan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loan ID"})
		return
	}

	loan, err := h.service.Return(id, actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}
