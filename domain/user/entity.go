package user

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	Name         string `gorm:"type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims represents the verified identity carried by an access token.
// Handlers must treat UserID as the only source of ownership; it is never
// read from request input.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
