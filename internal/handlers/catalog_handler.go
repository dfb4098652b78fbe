package handler

import (
	"net/http"

	"github.com/GDiazF/sgaf/internal/models"
	"github.com/GDiazF/sgaf/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogHandler serves the reference entities everything else points at:
// establishments, provider types, providers, document types and services.
type CatalogHandler struct {
	db           *gorm.DB
	providerRepo *repository.ProviderRepository
}

func NewCatalogHandler(db *gorm.DB, providerRepo *repository.ProviderRepository) *CatalogHandler {
	return &CatalogHandler{db: db, providerRepo: providerRepo}
}

func (h *CatalogHandler) ListEstablishments(c *gin.Context) {
	var items []models.Establishment
	query := h.db.Order("name ASC")
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&items).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CatalogHandler) CreateEstablishment(c *gin.Context) {
	var payload struct {
		RBD      int    `json:"rbd" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Type     string `json:"type"`
		Director string `json:"director"`
		Address  string `json:"address"`
		Email    string `json:"email"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	item := models.Establishment{
		ID:       uuid.New(),
		RBD:      payload.RBD,
		Name:     payload.Name,
		Type:     payload.Type,
		Director: payload.Director,
		Address:  payload.Address,
		Email:    payload.Email,
		Active:   true,
	}
	if err := h.db.Create(&item).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) ListProviderTypes(c *gin.Context) {
	var items []models.ProviderType
	if err := h.db.Order("name ASC").Find(&items).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CatalogHandler) CreateProviderType(c *gin.Context) {
	var payload struct {
		Name    string `json:"name" binding:"required"`
		Acronym string `json:"acronym"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	item := models.ProviderType{ID: uuid.New(), Name: payload.Name, Acronym: payload.Acronym}
	if err := h.db.Create(&item).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) ListProviders(c *gin.Context) {
	typeID, err := optionalUUID(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider type ID"})
		return
	}

	items, err := h.providerRepo.List(typeID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CatalogHandler) GetProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider ID"})
		return
	}

	item, err := h.providerRepo.GetByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) CreateProvider(c *gin.Context) {
	var payload struct {
		Name           string  `json:"name" binding:"required"`
		RUT            *string `json:"rut"`
		ProviderTypeID *string `json:"provider_type_id"`
		Contact        *string `json:"contact"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	item := models.Provider{
		ID:      uuid.New(),
		Name:    payload.Name,
		RUT:     payload.RUT,
		Contact: payload.Contact,
	}
	if payload.ProviderTypeID != nil {
		typeID, err := uuid.Parse(*payload.ProviderTypeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider type ID"})
			return
		}
		item.ProviderTypeID = &typeID
	}

	if err := h.db.Create(&item).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) ListDocumentTypes(c *gin.Context) {
	var items []models.DocumentType
	if err := h.db.Order("name ASC").Find(&items).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CatalogHandler) CreateDocumentType(c *gin.Context) {
	var payload struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	item := models.DocumentType{ID: uuid.New(), Name: payload.Name}
	if err := h.db.Create(&item).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	providerID, err := optionalUUID(c.Query("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider ID"})
		return
	}
	establishmentID, err := optionalUUID(c.Query("establishment"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid establishment ID"})
		return
	}

	var items []models.Service
	query := h.db.Preload("Provider").Preload("Establishment").Preload("DocumentType")
	if providerID != nil {
		query = query.Where("provider_id = ?", *providerID)
	}
	if establishmentID != nil {
		query = query.Where("establishment_id = ?", *establishmentID)
	}
	if v := c.Query("client_number"); v != "" {
		query = query.Where("client_number = ?", v)
	}
	if err := query.Find(&items).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var payload struct {
		ProviderID      string  `json:"provider_id" binding:"required"`
		EstablishmentID string  `json:"establishment_id" binding:"required"`
		ClientNumber    string  `json:"client_number" binding:"required"`
		ServiceNumber   *string `json:"service_number"`
		DocumentTypeID  *string `json:"document_type_id"`
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
	establishmentID, err := uuid.Parse(payload.EstablishmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid establishment ID"})
		return
	}

	item := models.Service{
		ID:              uuid.New(),
		ProviderID:      providerID,
		EstablishmentID: establishmentID,
		ClientNumber:    payload.ClientNumber,
		ServiceNumber:   payload.ServiceNumber,
	}
	if payload.DocumentTypeID != nil {
		docTypeID, err := uuid.Parse(*payload.DocumentTypeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document type ID"})
			return
		}
		item.DocumentTypeID = &docTypeID
	}

	if err := h.db.Create(&item).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}
