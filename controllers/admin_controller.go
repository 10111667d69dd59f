package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campstation/camp/models"
	"github.com/campstation/camp/stats"
	"github.com/campstation/camp/utils"
)

// AdminController exposes operator endpoints: platform counters and manual
// replay of the daily stats rollup.
type AdminController struct {
	db        *gorm.DB
	scheduler *stats.Scheduler
	loc       *time.Location
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(db *gorm.DB, scheduler *stats.Scheduler, loc *time.Location) *AdminController {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminController{db: db, scheduler: scheduler, loc: loc}
}

// Dashboard returns platform-wide entity counts.
func (a *AdminController) Dashboard(ctx *gin.Context) {
	counts := gin.H{}
	for name, model := range map[string]interface{}{
		"users":        &models.User{},
		"campgrounds":  &models.Campground{},
		"reservations": &models.Reservation{},
		"reviews":      &models.Review{},
	} {
		var n int64
		if err := a.db.Model(model).Count(&n).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load dashboard")
			return
		}
		counts[name] = n
	}
	utils.Success(ctx, counts)
}

// AggregateStats re-runs the daily rollup for one date (default: yesterday).
// A run already in flight for the same date is reported as a conflict.
func (a *AdminController) AggregateStats(ctx *gin.Context) {
	target := time.Now().In(a.loc).AddDate(0, 0, -1)
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, a.loc)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40080, "date must be YYYY-MM-DD")
			return
		}
		target = parsed
	}

	if err := a.scheduler.AggregateDate(target); err != nil {
		if errors.Is(err, stats.ErrJobRunning) {
			utils.Error(ctx, http.StatusConflict, 40904, "aggregation already running for that date")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "aggregation failed")
		return
	}
	utils.Success(ctx, gin.H{"date": target.Format("2006-01-02")})
}
