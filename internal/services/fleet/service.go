package fleet

import (
	"fmt"
	"io"

	"github.com/GDiazF/sgaf/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// AnnualStats aggregates one year of fleet expenses.
type AnnualStats struct {
	Year            int   `json:"year"`
	TotalFuel       int64 `json:"total_fuel"`
	TotalTolls      int64 `json:"total_tolls"`
	TotalInsurance  int64 `json:"total_insurance"`
	TotalKilometers int64 `json:"total_kilometers"`

	MonthlyAverage struct {
		Fuel       float64 `json:"fuel"`
		Tolls      float64 `json:"tolls"`
		Insurance  float64 `json:"insurance"`
		Kilometers float64 `json:"kilometers"`
	} `json:"monthly_average"`
}

type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) List(year int) ([]models.FleetRecord, error) {
	var records []models.FleetRecord
	query := s.db.Order("year DESC, month DESC")
	if year > 0 {
		query = s.db.Where("year = ?", year).Order("month ASC")
	}
	err := query.Find(&records).Error
	return records, err
}

// Stats sums the year's records and derives the twelve-month averages.
func (s *Service) Stats(year int) (*AnnualStats, error) {
	records, err := s.List(year)
	if err != nil {
		return nil, err
	}

	stats := &AnnualStats{Year: year}
	for _, r := range records {
		stats.TotalFuel += r.FuelExpense
		stats.TotalTolls += r.TollExpense
		stats.TotalInsurance += r.InsuranceExpense
		stats.TotalKilometers += r.Kilometers
	}
	stats.MonthlyAverage.Fuel = float64(stats.TotalFuel) / 12
	stats.MonthlyAverage.Tolls = float64(stats.TotalTolls) / 12
	stats.MonthlyAverage.Insurance = float64(stats.TotalInsurance) / 12
	stats.MonthlyAverage.Kilometers = float64(stats.TotalKilometers) / 12
	return stats, nil
}

// ExportExcel writes the fleet report workbook. A zero year exports every
// recorded period.
func (s *Service) ExportExcel(w io.Writer, year int) error {
	records, err := s.List(year)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Reporte Flota"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Año", "Mes", "N° Vehículos", "Kms Recorridos", "Gasto Bencina", "Gasto Peajes", "Gasto Seguros", "Total Mensual"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, r := range records {
		monthTotal := r.FuelExpense + r.TollExpense + r.InsuranceExpense
		values := []interface{}{r.Year, monthName(r.Month), r.VehicleCount, r.Kilometers, r.FuelExpense, r.TollExpense, r.InsuranceExpense, monthTotal}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.Write(w); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"year": year, "rows": len(records)}).Info("fleet report exported")
	return nil
}

func monthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", month)
	}
	return monthNames[month-1]
}
