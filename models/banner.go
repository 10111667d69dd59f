package models

import "time"

// Banner statuses.
const (
	BannerActive   = "ACTIVE"
	BannerInactive = "INACTIVE"
)

// Banner is a promotional slot shown on the landing page within its
// start/end window.
type Banner struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `gorm:"size:500" json:"description,omitempty"`
	ImageURL     string     `gorm:"size:500;not null" json:"imageUrl"`
	LinkURL      string     `gorm:"size:500" json:"linkUrl,omitempty"`
	DisplayOrder int        `gorm:"not null;default:0;index" json:"displayOrder"`
	Status       string     `gorm:"size:20;not null;default:INACTIVE;index" json:"status"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	ClickCount   int64      `gorm:"not null;default:0" json:"clickCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
