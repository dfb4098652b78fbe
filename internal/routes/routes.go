package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GDiazF/sgaf/internal/config"
	handler "github.com/GDiazF/sgaf/internal/handlers"
	"github.com/GDiazF/sgaf/internal/repository"
	contractsvc "github.com/GDiazF/sgaf/internal/services/contract"
	fleetsvc "github.com/GDiazF/sgaf/internal/services/fleet"
	keyloansvc "github.com/GDiazF/sgaf/internal/services/keyloan"
	"github.com/GDiazF/sgaf/internal/services/payimport"
	receiptsvc "github.com/GDiazF/sgaf/internal/services/receipt"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	logger := config.GetLogger()

	providerRepo := repository.NewProviderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)

	receiptService := receiptsvc.NewService(receiptRepo, paymentRepo, logger)
	importer := payimport.NewImporter(paymentRepo, logger)
	keyLoanService := keyloansvc.NewService(db, logger)
	fleetService := fleetsvc.NewService(db, logger)
	contractService := contractsvc.NewService(db, logger)

	catalogHandler := handler.NewCatalogHandler(db, providerRepo)
	paymentHandler := handler.NewPaymentHandler(paymentRepo, importer)
	receiptHandler := handler.NewReceiptHandler(receiptService, receiptRepo)
	keyLoanHandler := handler.NewKeyLoanHandler(db, keyLoanService)
	fleetHandler := handler.NewFleetHandler(db, fleetService)
	contractHandler := handler.NewContractHandler(contractService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Catalog routes
	api.GET("/establishments", catalogHandler.ListEstablishments)
	api.POST("/establishments", catalogHandler.CreateEstablishment)
	api.GET("/provider-types", catalogHandler.ListProviderTypes)
	api.POST("/provider-types", catalogHandler.CreateProviderType)
	api.GET("/providers", catalogHandler.ListProviders)
	api.POST("/providers", catalogHandler.CreateProvider)
	api.GET("/providers/:id", catalogHandler.GetProvider)
	api.GET("/document-types", catalogHandler.ListDocumentTypes)
	api.POST("/document-types", catalogHandler.CreateDocumentType)
	api.GET("/services", catalogHandler.ListServices)
	api.POST("/services", catalogHandler.CreateService)

	// Payment registry routes
	payments := api.Group("/payments")
	payments.GET("", paymentHandler.List)
	payments.POST("", paymentHandler.Create)
	payments.POST("/import", paymentHandler.Import)

	// Receipt (reconciliation document) routes
	receipts := api.Group("/receipts")
	receipts.GET("", receiptHandler.List)
	receipts.POST("", receiptHandler.Create)
	receipts.GET("/:id", receiptHandler.Get)
	receipts.PUT("/:id", receiptHandler.Update)
	receipts.POST("/:id/void", receiptHandler.Void)
	receipts.GET("/:id/history", receiptHandler.History)

	// Contract routes
	contracts := api.Group("/contracts")
	contracts.GET("", contractHandler.List)
	contracts.POST("", contractHandler.Create)
	contracts.GET("/:id", contractHandler.Get)
	contracts.PUT("/:id", contractHandler.Update)
	contracts.GET("/:id/history", contractHandler.History)

	// Key loan routes
	api.GET("/keys", keyLoanHandler.ListKeys)
	api.POST("/keys", keyLoanHandler.CreateKey)
	api.GET("/keys/:id/availability", keyLoanHandler.Availability)
	api.GET("/applicants", keyLoanHandler.ListApplicants)
	api.POST("/applicants", keyLoanHandler.CreateApplicant)
	loans := api.Group("/loans")
	loans.GET("", keyLoanHandler.ListLoans)
	loans.POST("", keyLoanHandler.CreateLoans)
	loans.POST("/:id/return", keyLoanHandler.ReturnLoan)

	// Vehicle fleet routes
	fleet := api.Group("/fleet")
	fleet.GET("", fleetHandler.List)
	fleet.POST("", fleetHandler.Create)
	fleet.GET("/stats", fleetHandler.Stats)
	fleet.GET("/export", fleetHandler.Export)
}
