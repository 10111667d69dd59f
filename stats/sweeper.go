package stats

import (
	"time"

	"gorm.io/gorm"

	"github.com/campstation/camp/models"
)

// Sweeper bulk-deletes raw view events past the retention horizon. Daily
// stat rows derived from them are kept; only the raw events expire.
type Sweeper struct {
	db        *gorm.DB
	retention time.Duration
	now       func() time.Time
}

// NewSweeper creates a sweeper with the given retention in days.
func NewSweeper(db *gorm.DB, retentionDays int) *Sweeper {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &Sweeper{
		db:        db,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// Sweep deletes events strictly older than the horizon (rows exactly at the
// boundary survive until the next run) and returns how many were removed.
// Re-running immediately finds nothing to delete.
func (s *Sweeper) Sweep() (int64, error) {
	cutoff := s.now().Add(-s.retention)
	res := s.db.Where("viewed_at < ?", cutoff).Delete(&models.CampgroundViewLog{})
	return res.RowsAffected, res.Error
}
