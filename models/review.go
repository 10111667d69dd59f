package models

import "time"

// Review is a rated comment left by a user on a campground.
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"userId"`
	CampgroundID uint      `gorm:"index;not null" json:"campgroundId"`
	Rating       int       `gorm:"not null" json:"rating"`
	Content      string    `gorm:"type:text" json:"content"`
	User         *User     `json:"user,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
