package stats

import (
	"time"

	"github.com/campstation/camp/models"
)

// DefaultStatsDays is the series length when the client does not ask for one.
const DefaultStatsDays = 30

// maxStatsDays caps the series length a single request may demand.
const maxStatsDays = 365

// DailyStats is one day of the returned series.
type DailyStats struct {
	StatDate          string  `json:"statDate"`
	UniqueVisitors    int     `json:"uniqueVisitors"`
	TotalViews        int     `json:"totalViews"`
	LoggedInVisitors  int     `json:"loggedInVisitors"`
	AnonymousVisitors int     `json:"anonymousVisitors"`
	AvgViewDuration   int     `json:"avgViewDuration"`
	ReservationsCount int     `json:"reservationsCount"`
	ConversionRate    float64 `json:"conversionRate"`
}

// StatsSummary is the full stats payload for a campground and window.
type StatsSummary struct {
	CampgroundID     uint         `json:"campgroundId"`
	TotalVisitors    int          `json:"totalVisitors"`
	TotalViews       int          `json:"totalViews"`
	AvgDailyVisitors float64      `json:"avgDailyVisitors"`
	AvgViewDuration  int          `json:"avgViewDuration"`
	ConversionRate   float64      `json:"conversionRate"`
	DailyStats       []DailyStats `json:"dailyStats"`
}

// Stats returns the trailing-days daily series for a campground, most
// recent day first, zero-filled so the series always has exactly `days`
// entries, along with aggregates over the whole window.
func (s *Service) Stats(campgroundID uint, days int) (*StatsSummary, error) {
	if err := s.campgroundExists(campgroundID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	now := s.now().In(s.loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	start := end.AddDate(0, 0, -(days - 1))

	// Bind the bounds as date strings: a time.Time would be re-zoned into
	// the connection's loc by the driver and could shift the day.
	var rows []models.CampgroundStatsDaily
	err := s.db.
		Where("campground_id = ? AND stat_date >= ? AND stat_date <= ?",
			campgroundID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("stat_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	series := FillSeries(end, days, rows)

	summary := &StatsSummary{
		CampgroundID: campgroundID,
		DailyStats:   series,
	}
	totalReservations := 0
	weightedDuration := 0
	for _, d := range series {
		summary.TotalVisitors += d.UniqueVisitors
		summary.TotalViews += d.TotalViews
		totalReservations += d.ReservationsCount
		weightedDuration += d.AvgViewDuration * d.UniqueVisitors
	}
	summary.AvgDailyVisitors = round2(float64(summary.TotalVisitors) / float64(days))
	if summary.TotalVisitors > 0 {
		summary.AvgViewDuration = weightedDuration / summary.TotalVisitors
		summary.ConversionRate = round2(float64(totalReservations) * 100 / float64(summary.TotalVisitors))
	}
	return summary, nil
}

// FillSeries maps stored rows onto a dense series of exactly `days` entries
// ending at `end`, most recent first. Days with no stored row come back as
// all-zero entries rather than being omitted.
func FillSeries(end time.Time, days int, rows []models.CampgroundStatsDaily) []DailyStats {
	byDate := make(map[string]models.CampgroundStatsDaily, len(rows))
	for _, r := range rows {
		byDate[r.StatDate.Format("2006-01-02")] = r
	}

	series := make([]DailyStats, 0, days)
	for i := 0; i < days; i++ {
		date := end.AddDate(0, 0, -i).Format("2006-01-02")
		entry := DailyStats{StatDate: date}
		if r, ok := byDate[date]; ok {
			entry.UniqueVisitors = r.UniqueVisitors
			entry.TotalViews = r.TotalViews
			entry.LoggedInVisitors = r.LoggedInVisitors
			entry.AnonymousVisitors = r.AnonymousVisitors
			entry.AvgViewDuration = r.AvgViewDuration
			entry.ReservationsCount = r.ReservationsCount
			entry.ConversionRate = r.ConversionRate
		}
		series = append(series, entry)
	}
	return series
}
