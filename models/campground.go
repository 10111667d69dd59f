package models

import "time"

// Campground statuses.
const (
	CampgroundActive   = "ACTIVE"
	CampgroundInactive = "INACTIVE"
)

// Campground is a listed camping ground owned by an OWNER user.
type Campground struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OwnerID       uint      `gorm:"index;not null" json:"ownerId"`
	Name          string    `gorm:"size:200;not null;index" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Address       string    `gorm:"size:500;not null" json:"address"`
	Phone         string    `gorm:"size:20" json:"phone,omitempty"`
	Latitude      float64   `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude     float64   `gorm:"type:decimal(10,7)" json:"longitude"`
	Status        string    `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`
	FavoriteCount int       `gorm:"not null;default:0" json:"favoriteCount"`
	ReviewCount   int       `gorm:"not null;default:0" json:"reviewCount"`
	CheckInTime   string    `gorm:"size:5" json:"checkInTime,omitempty"`
	CheckOutTime  string    `gorm:"size:5" json:"checkOutTime,omitempty"`
	Sites         []Site    `json:"sites,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Site is a bookable pitch inside a campground.
type Site struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CampgroundID  uint      `gorm:"index;not null" json:"campgroundId"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	SiteType      string    `gorm:"size:50" json:"siteType,omitempty"`
	Capacity      int       `gorm:"not null;default:4" json:"capacity"`
	PricePerNight int64     `gorm:"not null;default:0" json:"pricePerNight"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Favorite marks a campground bookmarked by a user.
type Favorite struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_fav_user_campground" json:"userId"`
	CampgroundID uint      `gorm:"not null;uniqueIndex:idx_fav_user_campground" json:"campgroundId"`
	CreatedAt    time.Time `json:"createdAt"`
}
