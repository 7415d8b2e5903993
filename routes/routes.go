package routes

import (
	"PearlDental/cache"
	"PearlDental/config"
	"PearlDental/controllers"
	"PearlDental/handlers"
	"PearlDental/middlewares"
	"PearlDental/repositories"
	"PearlDental/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.pearldental.app", "https://pearldental-dev.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, cache)
	patientRecordRepo := repositories.NewPatientRecordRepository(cache)
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	closureRepo := repositories.NewClosureRepository(cache)
	billingRepo := repositories.NewBillingRepository(cache)
	inventoryRepo := repositories.NewInventoryRepository(cache)
	procedureRepo := repositories.NewProcedureRepository(cache)

	// Initialize services
	userService := services.NewUserService(userRepo)
	patientService := services.NewPatientService(patientRecordRepo)
	availabilityService := services.NewAvailabilityService(appointmentRepo, closureRepo)
	bookingService := services.NewBookingService(appointmentRepo, availabilityService, userRepo, config)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo)
	billingService := services.NewBillingService(billingRepo, appointmentRepo, userRepo)
	treatmentService := services.NewTreatmentService(appointmentRepo, inventoryRepo, billingService)
	historyService := services.NewHistoryService(appointmentRepo)
	inventoryService := services.NewInventoryService(inventoryRepo)
	procedureService := services.NewProcedureService(procedureRepo)
	reportService := services.NewReportService(appointmentRepo, billingRepo, inventoryRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, patientService)
	appointmentHandler := handlers.NewAppointmentHandler(bookingService, appointmentService, availabilityService)
	treatmentHandler := handlers.NewTreatmentHandler(treatmentService, historyService)
	billingHandler := handlers.NewBillingHandler(billingService)
	patientHandler := handlers.NewPatientHandler(patientService, userService, appointmentService, billingService)
	closureHandler := handlers.NewClosureHandler(availabilityService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	procedureHandler := handlers.NewProcedureHandler(procedureService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Register routes
	controllers.SetupClinicRoutes(
		router,
		appointmentHandler,
		treatmentHandler,
		billingHandler,
		patientHandler,
		closureHandler,
		inventoryHandler,
		procedureHandler,
		reportHandler,
	)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
