package stats

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campstation/camp/models"
)

// Aggregator produces the daily per-campground rollup rows from raw view
// events and reservation counts.
type Aggregator struct {
	db  *gorm.DB
	loc *time.Location
}

// NewAggregator creates an aggregator operating in the given timezone.
func NewAggregator(db *gorm.DB, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{db: db, loc: loc}
}

// statColumns are replaced wholesale on conflict so re-running a date
// overwrites instead of double-counting.
var statColumns = []string{
	"unique_visitors",
	"total_views",
	"logged_in_visitors",
	"anonymous_visitors",
	"avg_view_duration",
	"reservations_count",
	"conversion_rate",
	"updated_at",
}

// AggregateDay rolls up all view events whose viewedAt falls inside the
// given calendar day and upserts one stats row per campground. Each upsert
// is independent: a failure aborts the run but leaves already-committed
// campgrounds in place, and the next run for the same date recomputes them
// identically.
func (a *Aggregator) AggregateDay(date time.Time) error {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, a.loc)
	end := start.AddDate(0, 0, 1)

	var events []models.CampgroundViewLog
	err := a.db.
		Select("campground_id", "session_id", "user_id", "view_duration").
		Where("viewed_at >= ? AND viewed_at < ?", start, end).
		Find(&events).Error
	if err != nil {
		return fmt.Errorf("load view events for %s: %w", start.Format("2006-01-02"), err)
	}

	reservations, err := a.reservationCounts(start, end)
	if err != nil {
		return fmt.Errorf("load reservation counts for %s: %w", start.Format("2006-01-02"), err)
	}

	rows := BuildDailyRows(start, events, reservations)
	for i := range rows {
		err := a.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campground_id"}, {Name: "stat_date"}},
			DoUpdates: clause.AssignmentColumns(statColumns),
		}).Create(&rows[i]).Error
		if err != nil {
			return fmt.Errorf("upsert stats campground=%d date=%s: %w",
				rows[i].CampgroundID, start.Format("2006-01-02"), err)
		}
	}
	return nil
}

func (a *Aggregator) reservationCounts(start, end time.Time) (map[uint]int, error) {
	var counts []struct {
		CampgroundID uint
		Cnt          int
	}
	err := a.db.Model(&models.Reservation{}).
		Select("campground_id, COUNT(*) AS cnt").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("campground_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uint]int, len(counts))
	for _, c := range counts {
		result[c.CampgroundID] = c.Cnt
	}
	return result, nil
}
