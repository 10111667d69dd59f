package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campstation/camp/middleware"
	"github.com/campstation/camp/stats"
	"github.com/campstation/camp/utils"
)

// StatsController exposes the view-statistics pipeline over HTTP: view
// ingestion, dwell-time pings, the live view count, and the daily series.
type StatsController struct {
	svc *stats.Service
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(svc *stats.Service) *StatsController {
	return &StatsController{svc: svc}
}

// RecordView ingests one page-view ping. Identity is attached
// opportunistically when a valid bearer token rode along.
func (s *StatsController) RecordView(ctx *gin.Context) {
	campgroundID, ok := campgroundParam(ctx)
	if !ok {
		return
	}

	var req struct {
		SessionID string `json:"sessionId" binding:"required,min=1,max=128"`
		Referrer  string `json:"referrer" binding:"omitempty,max=500"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	err := s.svc.RecordView(stats.ViewInput{
		CampgroundID: campgroundID,
		SessionID:    req.SessionID,
		Referrer:     req.Referrer,
		UserID:       middleware.CurrentUserID(ctx),
		IPAddress:    ctx.ClientIP(),
		UserAgent:    ctx.Request.UserAgent(),
	})
	if err != nil {
		s.fail(ctx, err, 50030, "failed to record view")
		return
	}
	utils.Success(ctx, nil)
}

// RecordDuration attaches a dwell time to the session's latest view.
func (s *StatsController) RecordDuration(ctx *gin.Context) {
	campgroundID, ok := campgroundParam(ctx)
	if !ok {
		return
	}

	var req struct {
		SessionID string `json:"sessionId" binding:"required,min=1,max=128"`
		Duration  *int   `json:"duration" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || *req.Duration < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	if err := s.svc.RecordDuration(campgroundID, req.SessionID, *req.Duration); err != nil {
		s.fail(ctx, err, 50031, "failed to record view duration")
		return
	}
	utils.Success(ctx, nil)
}

// ViewCount returns distinct viewing sessions over the last 24 hours.
func (s *StatsController) ViewCount(ctx *gin.Context) {
	campgroundID, ok := campgroundParam(ctx)
	if !ok {
		return
	}

	count, err := s.svc.ViewCount(campgroundID)
	if err != nil {
		s.fail(ctx, err, 50032, "failed to load view count")
		return
	}
	utils.Success(ctx, gin.H{"campgroundId": campgroundID, "viewCount": count})
}

// Stats returns the trailing daily series plus window aggregates.
func (s *StatsController) Stats(ctx *gin.Context) {
	campgroundID, ok := campgroundParam(ctx)
	if !ok {
		return
	}

	days := stats.DefaultStatsDays
	if raw := ctx.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.Error(ctx, http.StatusBadRequest, 40032, "days must be a positive integer")
			return
		}
		days = n
	}

	summary, err := s.svc.Stats(campgroundID, days)
	if err != nil {
		s.fail(ctx, err, 50033, "failed to load stats")
		return
	}
	utils.Success(ctx, summary)
}

func (s *StatsController) fail(ctx *gin.Context, err error, code int, msg string) {
	if errors.Is(err, stats.ErrCampgroundNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40430, "campground not found")
		return
	}
	utils.Error(ctx, http.StatusInternalServerError, code, msg)
}

func campgroundParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid campground id")
		return 0, false
	}
	return uint(id), true
}
