package domain

// User Model
type User struct {
	ID       uint      `gorm:"primaryKey"`                                    // Primary key
	Username string    `gorm:"unique;not null"`                               // Unique username
	Password string    `gorm:"not null" json:"-"`                             // Hashed password, never serialized
	UserBars []UserBar `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Cart quantities owned by this user
}
