package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campstation/camp/models"
)

func TestFillSeriesAlwaysDense(t *testing.T) {
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	rows := []models.CampgroundStatsDaily{
		{CampgroundID: 1, StatDate: end, UniqueVisitors: 5, TotalViews: 8},
		{CampgroundID: 1, StatDate: end.AddDate(0, 0, -3), UniqueVisitors: 2, TotalViews: 2, ConversionRate: 50},
	}

	series := FillSeries(end, 7, rows)
	require.Len(t, series, 7)

	assert.Equal(t, "2026-08-31", series[0].StatDate)
	assert.Equal(t, 5, series[0].UniqueVisitors)

	assert.Equal(t, "2026-08-28", series[3].StatDate)
	assert.Equal(t, 2, series[3].UniqueVisitors)
	assert.InDelta(t, 50.0, series[3].ConversionRate, 0.001)

	// Gap days come back as zero-filled entries, not holes.
	for _, i := range []int{1, 2, 4, 5, 6} {
		assert.Zero(t, series[i].UniqueVisitors, "day %d", i)
		assert.Zero(t, series[i].TotalViews, "day %d", i)
	}

	// Most recent first, strictly descending dates.
	for i := 1; i < len(series); i++ {
		assert.Less(t, series[i].StatDate, series[i-1].StatDate)
	}
}

func TestFillSeriesEmptyRows(t *testing.T) {
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	series := FillSeries(end, 7, nil)
	require.Len(t, series, 7)
	for _, d := range series {
		assert.Zero(t, d.TotalViews)
	}
}
