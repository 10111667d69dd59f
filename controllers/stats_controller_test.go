package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campstation/camp/stats"
)

func newStatsRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
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

	gin.SetMode(gin.TestMode)
	ctl := NewStatsController(stats.NewService(db, time.UTC))
	r := gin.New()
	r.POST("/campgrounds/:id/view-log", ctl.RecordView)
	r.POST("/campgrounds/:id/view-duration", ctl.RecordDuration)
	r.GET("/campgrounds/:id/view-count", ctl.ViewCount)
	r.GET("/campgrounds/:id/stats", ctl.Stats)
	return r, mock
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordViewRejectsBadPayload(t *testing.T) {
	r, _ := newStatsRouter(t)

	w := doJSON(r, http.MethodPost, "/campgrounds/1/view-log", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordViewRejectsBadCampgroundID(t *testing.T) {
	r, _ := newStatsRouter(t)

	w := doJSON(r, http.MethodPost, "/campgrounds/abc/view-log", `{"sessionId":"s1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordViewUnknownCampgroundIs404(t *testing.T) {
	r, mock := newStatsRouter(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `campgrounds`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	w := doJSON(r, http.MethodPost, "/campgrounds/999/view-log", `{"sessionId":"s1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordDurationRejectsNegative(t *testing.T) {
	r, _ := newStatsRouter(t)

	w := doJSON(r, http.MethodPost, "/campgrounds/1/view-duration", `{"sessionId":"s1","duration":-5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestViewCountOK(t *testing.T) {
	r, mock := newStatsRouter(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `campgrounds`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(DISTINCT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	w := doJSON(r, http.MethodGet, "/campgrounds/1/view-count", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			CampgroundID uint  `json:"campgroundId"`
			ViewCount    int64 `json:"viewCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, uint(1), resp.Data.CampgroundID)
	assert.Equal(t, int64(4), resp.Data.ViewCount)
}

func TestStatsRejectsBadDays(t *testing.T) {
	r, _ := newStatsRouter(t)

	w := doJSON(r, http.MethodGet, "/campgrounds/1/stats?days=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/campgrounds/1/stats?days=-3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsReturnsDenseSeries(t *testing.T) {
	r, mock := newStatsRouter(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `campgrounds`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `campground_stats_daily`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "campground_id", "stat_date", "unique_visitors", "total_views"}))

	w := doJSON(r, http.MethodGet, "/campgrounds/1/stats?days=7", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data stats.StatsSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.Data.CampgroundID)
	assert.Len(t, resp.Data.DailyStats, 7)
}
