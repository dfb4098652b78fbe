package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/GDiazF/sgaf/internal/models"
	service "github.com/GDiazF/sgaf/internal/services/fleet"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FleetHandler struct {
	db      *gorm.DB
	service *service.Service
}

func NewFleetHandler(db *gorm.DB, s *service.Service) *FleetHandler {
	return &FleetHandler{db: db, service: s}
}

func (h *FleetHandler) List(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	records, err := h.service.List(year)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

func (h *FleetHandler) Create(c *gin.Context) {
	var payload struct {
		Year             int   `json:"year" binding:"required"`
		Month            int   `json:"month" binding:"required,min=1,max=12"`
		VehicleCount     int   `json:"vehicle_count"`
		Kilometers       int64 `json:"kilometers"`
		FuelExpense      int64 `json:"fuel_expense"`
		TollExpense      int64 `json:"toll_expense"`
		InsuranceExpense int64 `json:"insurance_expense"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	record := models.FleetRecord{
		ID:               uuid.New(),
		Year:             payload.Year,
		Month:            payload.Month,
		VehicleCount:     payload.VehicleCount,
		Kilometers:       payload.Kilometers,
		FuelExpense:      payload.FuelExpense,
		TollExpense:      payload.TollExpense,
		InsuranceExpense: payload.InsuranceExpense,
	}
	if err := h.db.Create(&record).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *FleetHandler) Stats(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter required"})
		return
	}

	stats, err := h.service.Stats(year)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Export streams the fleet expense report as an xlsx attachment.
func (h *FleetHandler) Export(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))

	filename := "reporte_flota_completo.xlsx"
	if year > 0 {
		filename = fmt.Sprintf("reporte_flota_%d.xlsx", year)
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := h.service.ExportExcel(c.Writer, year); err != nil {
		abortWithError(c, err)
	}
}
