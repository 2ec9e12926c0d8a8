package domain

// Product Model
type Product struct {
	ID      uint           `gorm:"primaryKey"`                                    // Primary key
	Name    string         `gorm:"not null"`                                      // Product name
	InTrash bool           `gorm:"not null;default:false"`                        // Soft-archival flag; trashed products are hidden from listing
	Images  []ProductImage `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Product images
	// UserBars holds cart quantities for this product. Listing preloads it
	// scoped to the requesting user, so at most one element per product.
	UserBars []UserBar `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ProductImage Model
type ProductImage struct {
	ID        uint   `gorm:"primaryKey"`        // Primary key
	ProductID uint   `gorm:"index;not null"`    // Foreign key to Product
	Image     string `gorm:"not null"`          // URL path of the stored image, relative to the server root
}
