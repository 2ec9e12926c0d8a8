package api

import (
	"catalog_system/internal/domain" // Importing domain models
	"catalog_system/internal/utils"  // Utility functions
	"context"                        // Context for Redis operations
	"net/http"                       // HTTP status codes
	"strconv"                        // String conversion
	"time"                           // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

const (
	defaultPageSize = 10               // Default listing page size
	maxPageSize     = 100              // Requests above this are clamped, not rejected
	listCacheTTL    = 60 * time.Second // Listing cache lifetime
)

// currentUserID returns the authenticated user's ID from the context,
// or false for anonymous requests
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID") // Set by the JWT middleware
	if !exists {
		return 0, false // Anonymous request
	}
	id, ok := v.(uint) // Stored as uint by the middleware
	return id, ok
}

// listCacheKey builds the Redis key for one user's listing page.
// Anonymous requests share the user-0 keys.
func listCacheKey(userID uint, page, pageSize int) string {
	return "products:user:" + strconv.Itoa(int(userID)) +
		":page:" + strconv.Itoa(page) +
		":size:" + strconv.Itoa(pageSize)
}

// ListProductsHandler returns a paginated listing of non-trashed products
// with their images and, for authenticated requesters, their cart quantities
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, authenticated := currentUserID(c) // Anonymous requests get userID 0
		page := 1                                 // Default page
		pageSize := defaultPageSize               // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			// Convert page_size to integer
			if v, err := strconv.Atoi(ps); err == nil && v > 0 {
				if v > maxPageSize {
					v = maxPageSize // Clamp oversized requests
				}
				pageSize = v // Set page size if valid
			}
		}
		ctx := context.Background()                               // Context for Redis operations
		cacheKey := listCacheKey(userID, page, pageSize)          // Cache key for this user's page
		var cached PagedResponse                                  // Envelope to hold cached data
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, cached) // Return cached envelope
			return
		}
		var total int64 // Total count of non-trashed products
		// Count matching products for the envelope
		if err := db.Model(&domain.Product{}).Where("in_trash = ?", false).Count(&total).Error; err != nil {
			// If counting fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
			return
		}
		offset := (page - 1) * pageSize // Calculate offset
		// Base query: non-trashed products in insertion order, images preloaded in one batch
		query := db.Where("in_trash = ?", false).
			Preload("Images").
			Order("id asc").
			Offset(offset).
			Limit(pageSize)
		// For authenticated requesters, preload their own bars in one batch
		// so serialization never queries per product
		if authenticated {
			query = query.Preload("UserBars", "user_id = ?", userID)
		}
		var products []domain.Product // Slice to hold products
		// Fetch the page
		if err := query.Find(&products).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		origin := requestOrigin(c)                        // Origin for absolute URLs
		results := make([]ProductResponse, len(products)) // Page of representations
		// Map products to the API representation
		for i, p := range products {
			results[i] = serializeProduct(p, origin)
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := PagedResponse{
			Count:    total,                                    // Total matching records
			Next:     pageURL(c, page+1, pageSize, totalPages), // Next page URL or null
			Previous: pageURL(c, page-1, pageSize, totalPages), // Previous page URL or null
			Results:  results,                                  // Page of products
		}
		// Cache the envelope for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, listCacheTTL)
		c.JSON(http.StatusOK, resp) // Return the listing
	}
}
