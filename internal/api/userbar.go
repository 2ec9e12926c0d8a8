package api

import (
	"catalog_system/internal/domain" // Importing domain models
	"catalog_system/internal/utils"  // Utility functions
	"context"                        // Context for Redis operations
	"errors"                         // Error inspection
	"net/http"                       // HTTP status codes
	"time"                           // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/sirupsen/logrus" // Logging library
)

// UserBarRequest represents a cart quantity upsert request
type UserBarRequest struct {
	Product     uint `json:"product" binding:"required"`            // Target product ID
	ItemsNumber int  `json:"items_number" binding:"required,min=1"` // Desired cart quantity, at least 1
}

// UpdateUserBarHandler creates or updates the requesting user's cart quantity
// for a product. Responds 201 when a new row is created, 200 when an existing
// one is updated.
func UpdateUserBarHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		// Check if the requester is authenticated
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UserBarRequest // Bind JSON request to struct
		// Validate request: product required, items_number an integer >= 1
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request with the binding detail
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		var product domain.Product // Referenced product
		// The product must exist. Trashed products are deliberately allowed:
		// existing cart holders can still adjust quantities on them.
		if err := db.First(&product, req.Product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Unknown product is a validation failure, not a server fault
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}
		created := false // Whether a new row was created
		// Atomic upsert: find-then-update-or-create must not race itself into
		// two rows for the same (user, product) pair
		err := db.Transaction(func(tx *gorm.DB) error {
			var bar domain.UserBar // The requester's bar for this product, if any
			// Lookup scoped to the requesting user: other users' bars are unreachable
			err := tx.Where("user_id = ? AND product_id = ?", userID, req.Product).First(&bar).Error
			if err == nil {
				// Update the existing row in place
				return tx.Model(&bar).Update("items_number", req.ItemsNumber).Error
			}
			// Any failure other than not-found aborts the transaction
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err // Return error to rollback
			}
			// Create a new bar owned by the requesting user
			bar = domain.UserBar{UserID: userID, ProductID: req.Product, ItemsNumber: req.ItemsNumber}
			if err := tx.Create(&bar).Error; err != nil {
				// A concurrent insert for the same pair won the unique index;
				// retry as an in-place update of the winner
				var existing domain.UserBar
				if ferr := tx.Where("user_id = ? AND product_id = ?", userID, req.Product).First(&existing).Error; ferr != nil {
					return err // Return the original create error to rollback
				}
				return tx.Model(&existing).Update("items_number", req.ItemsNumber).Error
			}
			created = true // A new row was created
			return nil     // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":      userID,          // Requesting user ID
				"product_id":   req.Product,     // Target product ID
				"items_number": req.ItemsNumber, // Requested quantity
				"error":        err.Error(),     // Error message
			}).Error("Cart quantity upsert failed") // Log upsert failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart quantity"})
			return
		}
		// Log successful upsert
		logrus.WithFields(logrus.Fields{
			"user_id":      userID,                          // Requesting user ID
			"product_id":   req.Product,                     // Target product ID
			"items_number": req.ItemsNumber,                 // New quantity
			"created":      created,                         // Whether a row was created
			"timestamp":    time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Cart quantity upsert") // Log upsert success
		// Invalidate this user's cached listing pages
		if rdb != nil {
			ctx := context.Background() // Context for Redis operations
			// Invalidate cached listing pages for this user (simple version: delete first 5 pages of the default size)
			for i := 1; i <= 5; i++ {
				_ = utils.DeleteCache(ctx, rdb, listCacheKey(userID, i, defaultPageSize))
			}
		}
		status := http.StatusOK // Updated in place
		if created {
			status = http.StatusCreated // New row created
		}
		// Return the persisted representation
		c.JSON(status, UserBarResponse{Product: req.Product, ItemsNumber: req.ItemsNumber})
	}
}
