package stats

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func expectCampgroundExists(mock sqlmock.Sqlmock, count int) {
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `campgrounds`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(count))
}

func TestRecordViewInsertsFirstView(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, time.UTC)

	expectCampgroundExists(mock, 1)
	mock.ExpectQuery("SELECT \\* FROM `campground_view_logs`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `campground_view_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := svc.RecordView(ViewInput{CampgroundID: 1, SessionID: "sess-1", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordViewSkipsRepeatWithinWindow(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, time.UTC)

	expectCampgroundExists(mock, 1)
	mock.ExpectQuery("SELECT \\* FROM `campground_view_logs`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "campground_id", "session_id"}).
			AddRow(10, 1, "sess-1"))

	// No INSERT is expected; a repeat view inside the window is dropped.
	err := svc.RecordView(ViewInput{CampgroundID: 1, SessionID: "sess-1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordViewUnknownCampground(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, time.UTC)

	expectCampgroundExists(mock, 0)

	err := svc.RecordView(ViewInput{CampgroundID: 999, SessionID: "sess-1"})
	assert.ErrorIs(t, err, ErrCampgroundNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDurationUpdatesLatestView(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, time.UTC)

	expectCampgroundExists(mock, 1)
	mock.ExpectQuery("SELECT \\* FROM `campground_view_logs`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "campground_id", "session_id"}).
			AddRow(10, 1, "sess-1"))
	mock.ExpectExec("UPDATE `campground_view_logs` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.RecordDuration(1, "sess-1", 45)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDurationWithoutViewIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, time.UTC)

	expectCampgroundExists(mock, 1)
	mock.ExpectQuery("SELECT \\* FROM `campground_view_logs`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// No matching view event: swallow silently, no UPDATE issued.
	err := svc.RecordDuration(1, "ghost-session", 45)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViewCountDistinctSessions(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, time.UTC)

	expectCampgroundExists(mock, 1)
	mock.ExpectQuery("SELECT COUNT\\(DISTINCT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := svc.ViewCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsBindsDateRangeAsStrings(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }

	expectCampgroundExists(mock, 1)
	// The range bounds go over the wire as date strings, so the driver's
	// DSN loc cannot re-zone them onto a neighboring day.
	mock.ExpectQuery("SELECT \\* FROM `campground_stats_daily`").
		WithArgs(1, "2026-08-25", "2026-08-31").
		WillReturnRows(sqlmock.NewRows([]string{"id", "campground_id", "stat_date"}))

	summary, err := svc.Stats(1, 7)
	require.NoError(t, err)
	assert.Len(t, summary.DailyStats, 7)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsUnknownCampground(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, time.UTC)

	expectCampgroundExists(mock, 0)

	_, err := svc.Stats(999, 7)
	assert.ErrorIs(t, err, ErrCampgroundNotFound)
}

func TestSweeperDeletesExpiredEvents(t *testing.T) {
	db, mock := newMockDB(t)
	sweeper := NewSweeper(db, 90)

	mock.ExpectExec("DELETE FROM `campground_view_logs`").
		WillReturnResult(sqlmock.NewResult(0, 5))

	deleted, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
