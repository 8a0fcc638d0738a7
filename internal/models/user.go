package models

import "time"

// User is a registered account holder. Users own books, enter
// transactions, and act as guardians for custodial family members.
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	Name             string     `json:"name"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Books []Book `gorm:"foreignKey:OwnerID" json:"books,omitempty"`
}
