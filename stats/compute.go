package stats

import (
	"math"
	"sort"
	"time"

	"github.com/campstation/camp/models"
)

// dayAccumulator collects one campground's raw events for a single day.
type dayAccumulator struct {
	sessions map[string]struct{}
	loggedIn map[string]struct{}
	views    int
	durSum   int
	durCount int
}

// BuildDailyRows rolls one day's raw view events into per-campground daily
// stat rows. reservations maps campground id to the number of reservations
// created that day; campgrounds that took reservations without a single
// page view still get a row (with a zero conversion rate, since conversion
// is undefined without visitors).
//
// The result is deterministic for a given input, which is what makes
// re-running aggregation for the same date idempotent.
func BuildDailyRows(statDate time.Time, events []models.CampgroundViewLog, reservations map[uint]int) []models.CampgroundStatsDaily {
	byCampground := map[uint]*dayAccumulator{}
	for _, ev := range events {
		acc := byCampground[ev.CampgroundID]
		if acc == nil {
			acc = &dayAccumulator{
				sessions: map[string]struct{}{},
				loggedIn: map[string]struct{}{},
			}
			byCampground[ev.CampgroundID] = acc
		}
		acc.views++
		acc.sessions[ev.SessionID] = struct{}{}
		if ev.UserID != nil {
			acc.loggedIn[ev.SessionID] = struct{}{}
		}
		if ev.ViewDuration != nil {
			acc.durSum += *ev.ViewDuration
			acc.durCount++
		}
	}

	ids := make([]uint, 0, len(byCampground))
	for id := range byCampground {
		ids = append(ids, id)
	}
	for id := range reservations {
		if _, seen := byCampground[id]; !seen {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	date := time.Date(statDate.Year(), statDate.Month(), statDate.Day(), 0, 0, 0, 0, statDate.Location())
	rows := make([]models.CampgroundStatsDaily, 0, len(ids))
	for _, id := range ids {
		row := models.CampgroundStatsDaily{
			CampgroundID:      id,
			StatDate:          date,
			ReservationsCount: reservations[id],
		}
		if acc := byCampground[id]; acc != nil {
			row.UniqueVisitors = len(acc.sessions)
			row.TotalViews = acc.views
			row.LoggedInVisitors = len(acc.loggedIn)
			row.AnonymousVisitors = row.UniqueVisitors - row.LoggedInVisitors
			if acc.durCount > 0 {
				row.AvgViewDuration = int(math.Round(float64(acc.durSum) / float64(acc.durCount)))
			}
		}
		if row.UniqueVisitors > 0 {
			row.ConversionRate = round2(float64(row.ReservationsCount) * 100 / float64(row.UniqueVisitors))
		}
		rows = append(rows, row)
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
