package models

import "time"

// Reservation statuses.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// Reservation books a site for a date range. CreatedAt drives the daily
// conversion-rate aggregation, so it is never rewritten after insert.
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ReservationNo   string    `gorm:"size:36;uniqueIndex;not null" json:"reservationNo"`
	UserID          uint      `gorm:"index;not null" json:"userId"`
	CampgroundID    uint      `gorm:"index:idx_resv_campground_created;not null" json:"campgroundId"`
	SiteID          uint      `gorm:"index;not null" json:"siteId"`
	CheckInDate     time.Time `gorm:"type:date;not null" json:"checkInDate"`
	CheckOutDate    time.Time `gorm:"type:date;not null" json:"checkOutDate"`
	NumberOfGuests  int       `gorm:"not null;default:1" json:"numberOfGuests"`
	TotalAmount     int64     `gorm:"not null;default:0" json:"totalAmount"`
	Status          string    `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	SpecialRequests string    `gorm:"size:1000" json:"specialRequests,omitempty"`
	CreatedAt       time.Time `gorm:"index:idx_resv_campground_created" json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
