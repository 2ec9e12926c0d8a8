package domain

// UserBar Model: one cart quantity per (user, product) pair.
// The composite unique index is load-bearing: concurrent upserts may race,
// but a second row for the same pair can never be created.
type UserBar struct {
	ID          uint `gorm:"primaryKey"`                            // Primary key
	UserID      uint `gorm:"not null;uniqueIndex:idx_user_product"` // Foreign key to User
	ProductID   uint `gorm:"not null;uniqueIndex:idx_user_product"` // Foreign key to Product
	ItemsNumber int  `gorm:"not null"`                              // Cart quantity, always >= 1
}
