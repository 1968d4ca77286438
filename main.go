package main

import (
	"net/http"
	"os"

	"foodbridge-api/config"
	"foodbridge-api/handlers"
	"foodbridge-api/lifecycle"
	"foodbridge-api/live"
	"foodbridge-api/logger"
	"foodbridge-api/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Close()

	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database
	config.InitDB()

	// Live subscription hub + lifecycle engine
	hub := live.NewHub()
	defer hub.Close()
	engine := lifecycle.NewEngine(config.DB, hub)
	api := handlers.New(engine, hub)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "FoodBridge Surplus Food API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🥖 Welcome to the FoodBridge Surplus Food API",
			"docs":    "/api/lifecycle",
			"health":  "/health",
			"roles":   []string{"restaurant", "ngo"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, api)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server running", zap.String("addr", "http://localhost:"+port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
