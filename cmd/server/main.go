package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"payables_app_echo/internal/handlers"
	appMiddleware "payables_app_echo/internal/middleware"
	"payables_app_echo/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis (optional; regeneration falls back to the db guard)
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	} else {
		log.Println("Warning: REDIS_URL not set, cache and regeneration locks disabled")
	}

	// Initialize services
	midtransSvc := services.NewMidtransService()
	allocator := services.NewAllocatorService(db)
	regenSvc := services.NewRegenerationService(db, cache)
	obligationSvc := services.NewObligationService(db, allocator, regenSvc)
	paymentSvc := services.NewPaymentService(db, midtransSvc)

	// Initialize handlers
	obligationHandler := handlers.NewObligationHandler(obligationSvc, regenSvc)
	paymentHandler := handlers.NewPaymentHandler(db, obligationSvc, paymentSvc, midtransSvc)
	calendarHandler := handlers.NewCalendarHandler(db, cache)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = appMiddleware.CustomErrorHandler

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	// Routes
	e.GET("/obligations", obligationHandler.ListObligations)
	e.GET("/obligations/:id", obligationHandler.GetObligation)
	e.GET("/obligations/folio/:folio", obligationHandler.GetObligationByFolio)
	e.PUT("/obligations/:id", obligationHandler.UpdateObligation)
	e.DELETE("/obligations/:id", obligationHandler.DeleteObligation)

	e.POST("/obligations/:id/payments", paymentHandler.ApplyPayment)
	e.POST("/obligations/:id/checkout", paymentHandler.InitiateCheckout)
	e.POST("/payments/midtrans/callback", paymentHandler.MidtransCallback)

	e.POST("/obligations/:id/regenerate", obligationHandler.ConfirmRegeneration)
	e.POST("/regenerations/:id/retry", obligationHandler.RetryRegeneration)

	e.GET("/calendar/upcoming", calendarHandler.UpcomingCalendar)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(e.Start(":" + port))
}
