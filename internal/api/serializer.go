package api

import (
	"catalog_system/internal/domain" // Importing domain models
	"net/url"                        // URL building for pagination links
	"strconv"                        // String conversion
	"strings"                        // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// ProductResponse represents a product in the listing
type ProductResponse struct {
	ID                 uint     `json:"id"`                   // Product ID
	Name               string   `json:"name"`                 // Product name
	UserbarItemsNumber int      `json:"userbar_items_number"` // Requester's cart quantity, 0 when none
	Images             []string `json:"images"`               // Image URLs
}

// UserBarResponse represents a cart quantity returned by the upsert endpoint
type UserBarResponse struct {
	Product     uint `json:"product"`      // Product ID
	ItemsNumber int  `json:"items_number"` // Cart quantity
}

// PagedResponse is the listing envelope
type PagedResponse struct {
	Count    int64             `json:"count"`    // Total matching records
	Next     *string           `json:"next"`     // Next page URL, null on the last page
	Previous *string           `json:"previous"` // Previous page URL, null on the first page
	Results  []ProductResponse `json:"results"`  // Page of product representations
}

// requestOrigin returns the scheme://host prefix of the current request,
// or an empty string when the host is unknown
func requestOrigin(c *gin.Context) string {
	if c.Request == nil || c.Request.Host == "" {
		return "" // No origin information available
	}
	scheme := "http" // Default scheme
	if c.Request.TLS != nil {
		scheme = "https" // TLS request
	}
	return scheme + "://" + c.Request.Host
}

// imageURL resolves a stored image path to an absolute URL when the request
// origin is known, otherwise returns the storage-native path
func imageURL(origin, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path // Stored paths are relative to the server root
	}
	if origin == "" {
		return path // Storage-native URL
	}
	return origin + path // Absolute URL
}

// serializeProduct maps a product and its preloaded associations to the API
// representation. The UserBars association must already be preloaded scoped
// to the requesting user; no queries are issued here.
func serializeProduct(p domain.Product, origin string) ProductResponse {
	images := make([]string, 0, len(p.Images)) // Resolved image URLs
	for _, img := range p.Images {
		images = append(images, imageURL(origin, img.Image)) // Resolve each image
	}
	itemsNumber := 0 // Default for anonymous requesters and products without a bar
	// At most one preloaded bar exists per product due to the unique (user, product) index
	if len(p.UserBars) > 0 {
		itemsNumber = p.UserBars[0].ItemsNumber // Requester's cart quantity
	}
	return ProductResponse{
		ID:                 p.ID,        // Product ID
		Name:               p.Name,      // Product name
		UserbarItemsNumber: itemsNumber, // Cart quantity
		Images:             images,      // Image URLs
	}
}

// pageURL builds the absolute listing URL for the given page, or nil when the
// page falls outside [1, totalPages]
func pageURL(c *gin.Context, page, pageSize, totalPages int) *string {
	if page < 1 || page > totalPages {
		return nil // No such page
	}
	q := url.Values{}                          // Query parameters
	q.Set("page", strconv.Itoa(page))          // Target page
	q.Set("page_size", strconv.Itoa(pageSize)) // Page size carried over
	u := url.URL{Path: c.Request.URL.Path, RawQuery: q.Encode()}
	link := requestOrigin(c) + u.String() // Absolute when the origin is known
	return &link
}
