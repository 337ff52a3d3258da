package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/HCD2016-hash/shippo-missive/internal/handlers"
	"github.com/HCD2016-hash/shippo-missive/internal/middleware"
)

type RouterConfig struct {
	RequestLogger   *middleware.RequestLogger
	WebhookHandler  *handlers.WebhookHandler
	ShipmentHandler *handlers.ShipmentHandler
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors: the dashboard iframe polls the read API from its own origin.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handle())
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	// Inbound events
	router.POST("/webhook/shippo", cfg.WebhookHandler.Receive)

	// Dashboard read API
	api := router.Group("/api/shippo")
	{
		api.GET("/shipments", cfg.ShipmentHandler.List)
		api.GET("/shipments/:id", cfg.ShipmentHandler.Get)
		api.GET("/stats", cfg.ShipmentHandler.Stats)
	}

	return router
}
