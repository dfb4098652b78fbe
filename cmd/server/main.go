package main

import (
	"log"
	"os"
	"time"

	"github.com/GDiazF/sgaf/internal/config"
	"github.com/GDiazF/sgaf/internal/models"
	"github.com/GDiazF/sgaf/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	db := config.InitDB()

	db.AutoMigrate(
		&models.Establishment{},
		&models.ProviderType{},
		&models.Provider{},
		&models.DocumentType{},
		&models.Service{},
		&models.PaymentRegistry{},
		&models.Receipt{},
		&models.AuditEntry{},
		&models.Contract{},
		&models.ContractHistory{},
		&models.Key{},
		&models.Applicant{},
		&models.KeyLoan{},
		&models.FleetRecord{},
	)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Actor"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
