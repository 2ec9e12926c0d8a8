package main

import (
	"catalog_system/internal/api"        // Custom package for API handlers
	"catalog_system/internal/config"     // Custom package for configuration
	"catalog_system/internal/middleware" // Custom package for middleware
	"context"                            // context package is needed for Redis operations
	"log"                                // log package is needed for logging
	"time"                               // Time durations

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client when configured; without it the listing cache is skipped
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, listing cache disabled")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Serve product image files
	r.Static("/media", cfg.MediaDir)

	// Identity routes
	r.POST("/users", api.RegisterHandler(db))                   // Registration endpoint
	r.POST("/users/login", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint

	// Product listing is public; a valid token enriches it with cart quantities
	productGroup := r.Group("/products")
	productGroup.Use(middleware.OptionalJWTMiddleware(cfg.JWTSecret))
	productGroup.GET("/", api.ListProductsHandler(db, redisClient)) // Listing endpoint

	// Cart quantity routes (protected by JWT)
	userBarGroup := r.Group("/user_bars")
	userBarGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userBarGroup.PUT("/update/", api.UpdateUserBarHandler(db, redisClient))   // Upsert endpoint
	userBarGroup.PATCH("/update/", api.UpdateUserBarHandler(db, redisClient)) // Same handler, PATCH alias

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
