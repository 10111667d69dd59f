package stats

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campstation/camp/models"
)

// dedupWindow is the lookback used both for skipping repeat views from the
// same session and for the live view count.
const dedupWindow = 24 * time.Hour

// ErrCampgroundNotFound is returned when a stats operation references an
// unknown campground id.
var ErrCampgroundNotFound = errors.New("campground not found")

// Service implements view ingestion, dwell-time recording, and the
// read-side stat queries.
type Service struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewService creates a stats service operating in the given timezone.
func NewService(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, loc: loc, now: time.Now}
}

// ViewInput is one page-view ping from a client.
type ViewInput struct {
	CampgroundID uint
	SessionID    string
	Referrer     string
	UserID       *uint
	IPAddress    string
	UserAgent    string
}

// RecordView appends a view event unless the same session already viewed
// this campground within the dedup window. The read-then-write pair is not
// serialized across requests; a concurrent race can let one duplicate
// through, which the daily rollup's distinct-session counting absorbs.
func (s *Service) RecordView(in ViewInput) error {
	if err := s.campgroundExists(in.CampgroundID); err != nil {
		return err
	}

	now := s.now()
	var last models.CampgroundViewLog
	err := s.db.
		Where("session_id = ? AND campground_id = ? AND viewed_at > ?",
			in.SessionID, in.CampgroundID, now.Add(-dedupWindow)).
		Order("viewed_at DESC").
		Take(&last).Error
	if err == nil {
		// Repeat visit inside the window: drop silently, not an error.
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Create(&models.CampgroundViewLog{
		CampgroundID: in.CampgroundID,
		UserID:       in.UserID,
		SessionID:    in.SessionID,
		IPAddress:    in.IPAddress,
		UserAgent:    in.UserAgent,
		Referrer:     in.Referrer,
		ViewedAt:     now,
	}).Error
}

// RecordDuration attaches a dwell time to the session's most recent view of
// the campground, overwriting any earlier report. When no view event exists
// the call is a deliberate no-op so clients cannot probe ingestion state.
func (s *Service) RecordDuration(campgroundID uint, sessionID string, seconds int) error {
	if err := s.campgroundExists(campgroundID); err != nil {
		return err
	}

	var last models.CampgroundViewLog
	err := s.db.
		Where("session_id = ? AND campground_id = ?", sessionID, campgroundID).
		Order("viewed_at DESC").
		Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.db.Model(&models.CampgroundViewLog{}).
		Where("id = ?", last.ID).
		Update("view_duration", seconds).Error
}

// ViewCount returns the number of distinct sessions that viewed the
// campground in the last 24 hours, computed live from raw events since the
// current day has not been aggregated yet.
func (s *Service) ViewCount(campgroundID uint) (int64, error) {
	if err := s.campgroundExists(campgroundID); err != nil {
		return 0, err
	}

	var count int64
	err := s.db.Model(&models.CampgroundViewLog{}).
		Where("campground_id = ? AND viewed_at >= ?", campgroundID, s.now().Add(-dedupWindow)).
		Distinct("session_id").
		Count(&count).Error
	return count, err
}

func (s *Service) campgroundExists(id uint) error {
	var count int64
	if err := s.db.Model(&models.Campground{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCampgroundNotFound
	}
	return nil
}
