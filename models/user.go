package models

import "time"

// User roles.
const (
	RoleUser  = "USER"
	RoleOwner = "OWNER"
	RoleAdmin = "ADMIN"
)

// User statuses.
const (
	UserActive    = "ACTIVE"
	UserSuspended = "SUSPENDED"
)

// User represents a platform account. Social-login accounts carry a provider
// and providerId instead of a usable password hash.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string     `gorm:"size:255" json:"-"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Phone        string     `gorm:"size:20" json:"phone,omitempty"`
	Role         string     `gorm:"size:20;not null;default:USER" json:"role"`
	Status       string     `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	Provider     string     `gorm:"size:20" json:"provider,omitempty"`
	ProviderID   string     `gorm:"size:100;index" json:"-"`
	ProfileImage string     `gorm:"size:500" json:"profileImage,omitempty"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
