package models

import "time"

// CampgroundStatsDaily is the per-campground daily rollup produced by the
// aggregation job. At most one row exists per (campground, date); re-running
// aggregation replaces the row wholesale.
type CampgroundStatsDaily struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CampgroundID      uint      `gorm:"not null;uniqueIndex:idx_stats_campground_date" json:"campgroundId"`
	StatDate          time.Time `gorm:"type:date;not null;uniqueIndex:idx_stats_campground_date;index" json:"statDate"`
	UniqueVisitors    int       `gorm:"not null;default:0" json:"uniqueVisitors"`
	TotalViews        int       `gorm:"not null;default:0" json:"totalViews"`
	LoggedInVisitors  int       `gorm:"not null;default:0" json:"loggedInVisitors"`
	AnonymousVisitors int       `gorm:"not null;default:0" json:"anonymousVisitors"`
	AvgViewDuration   int       `gorm:"not null;default:0" json:"avgViewDuration"`
	ReservationsCount int       `gorm:"not null;default:0" json:"reservationsCount"`
	ConversionRate    float64   `gorm:"type:decimal(5,2);not null;default:0" json:"conversionRate"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TableName avoids gorm pluralizing "daily" to "dailies".
func (CampgroundStatsDaily) TableName() string {
	return "campground_stats_daily"
}
