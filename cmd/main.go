package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/HCD2016-hash/shippo-missive/internal/db"
	"github.com/HCD2016-hash/shippo-missive/internal/handlers"
	"github.com/HCD2016-hash/shippo-missive/internal/logger"
	"github.com/HCD2016-hash/shippo-missive/internal/middleware"
	"github.com/HCD2016-hash/shippo-missive/internal/repos"
	"github.com/HCD2016-hash/shippo-missive/internal/server"
	"github.com/HCD2016-hash/shippo-missive/internal/services"
	"github.com/HCD2016-hash/shippo-missive/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	shipmentRepo := repos.NewShipmentRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	reconcilerService := services.NewReconcilerService(thePG, log, shipmentRepo)
	shipmentService := services.NewShipmentService(thePG, log, shipmentRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	webhookHandler := handlers.NewWebhookHandler(log, reconcilerService)
	listDays := utils.GetEnvAsInt("SHIPMENT_LIST_DAYS", 90, log)
	listLimit := utils.GetEnvAsInt("SHIPMENT_LIST_LIMIT", 200, log)
	shipmentHandler := handlers.NewShipmentHandler(log, shipmentService, listDays, listLimit)

	// Middleware
	requestLogger := middleware.NewRequestLogger(log)

	// Router
	log.Info("Setting up router from main...")
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
	router := server.NewRouter(server.RouterConfig{
		RequestLogger:   requestLogger,
		WebhookHandler:  webhookHandler,
		ShipmentHandler: shipmentHandler,
		AllowOrigins:    allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
