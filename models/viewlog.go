package models

import "time"

// CampgroundViewLog is one raw page-view event. Rows are append-only: only
// ViewDuration may change after insert, and old rows are purged in bulk by
// the retention sweeper.
type CampgroundViewLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CampgroundID uint      `gorm:"not null;index:idx_viewlog_session_campground_viewed;index:idx_viewlog_campground_viewed" json:"campgroundId"`
	UserID       *uint     `gorm:"index" json:"userId,omitempty"`
	SessionID    string    `gorm:"size:255;not null;index:idx_viewlog_session_campground_viewed" json:"sessionId"`
	IPAddress    string    `gorm:"size:45" json:"ipAddress,omitempty"`
	UserAgent    string    `gorm:"type:text" json:"userAgent,omitempty"`
	Referrer     string    `gorm:"size:500" json:"referrer,omitempty"`
	ViewDuration *int      `json:"viewDuration,omitempty"`
	ViewedAt     time.Time `gorm:"not null;index:idx_viewlog_session_campground_viewed;index:idx_viewlog_campground_viewed" json:"viewedAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName pins the table name the stats queries are written against.
func (CampgroundViewLog) TableName() string {
	return "campground_view_logs"
}
