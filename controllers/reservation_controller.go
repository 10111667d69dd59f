package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campstation/camp/middleware"
	"github.com/campstation/camp/models"
	"github.com/campstation/camp/utils"
)

// ReservationController books sites and manages the caller's reservations.
type ReservationController struct {
	db  *gorm.DB
	loc *time.Location
}

// NewReservationController creates a ReservationController; loc is the
// timezone whose calendar decides whether a check-in date is already past.
func NewReservationController(db *gorm.DB, loc *time.Location) *ReservationController {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationController{db: db, loc: loc}
}

// Create books a site for a date range. The total is nights times the site
// price; overlapping confirmed bookings for the same site are rejected.
func (r *ReservationController) Create(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if userID == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		CampgroundID    uint   `json:"campgroundId" binding:"required"`
		SiteID          uint   `json:"siteId" binding:"required"`
		CheckInDate     string `json:"checkInDate" binding:"required"`
		CheckOutDate    string `json:"checkOutDate" binding:"required"`
		NumberOfGuests  int    `json:"numberOfGuests" binding:"omitempty,min=1,max=50"`
		SpecialRequests string `json:"specialRequests" binding:"omitempty,max=1000"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	checkIn, err1 := time.Parse("2006-01-02", req.CheckInDate)
	checkOut, err2 := time.Parse("2006-01-02", req.CheckOutDate)
	if err1 != nil || err2 != nil || !checkOut.After(checkIn) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid date range")
		return
	}
	if checkIn.Before(minCheckInDate(time.Now(), r.loc)) {
		utils.Error(ctx, http.StatusBadRequest, 40052, "check-in date is in the past")
		return
	}

	var site models.Site
	err := r.db.Where("id = ? AND campground_id = ?", req.SiteID, req.CampgroundID).Take(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40450, "site not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to create reservation")
		return
	}

	var overlapping int64
	err = r.db.Model(&models.Reservation{}).
		Where("site_id = ? AND status IN ? AND check_in_date < ? AND check_out_date > ?",
			req.SiteID, []string{models.ReservationPending, models.ReservationConfirmed},
			checkOut, checkIn).
		Count(&overlapping).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to create reservation")
		return
	}
	if overlapping > 0 {
		utils.Error(ctx, http.StatusConflict, 40902, "site already booked for those dates")
		return
	}

	guests := req.NumberOfGuests
	if guests == 0 {
		guests = 1
	}
	if guests > site.Capacity {
		utils.Error(ctx, http.StatusBadRequest, 40053, "party exceeds site capacity")
		return
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	reservation := models.Reservation{
		ReservationNo:   uuid.NewString(),
		UserID:          *userID,
		CampgroundID:    req.CampgroundID,
		SiteID:          req.SiteID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  guests,
		TotalAmount:     nights * site.PricePerNight,
		Status:          models.ReservationPending,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}
	if err := r.db.Create(&reservation).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to create reservation")
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", reservation)
}

// minCheckInDate is today's date on loc's calendar, expressed at UTC
// midnight the same way bound check-in dates are parsed. Truncating the
// instant instead would use the UTC day boundary and misjudge "today" for
// users east or west of it.
func minCheckInDate(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// MyReservations lists the caller's reservations, newest first.
func (r *ReservationController) MyReservations(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if userID == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, size := pagination(ctx)
	var reservations []models.Reservation
	err := r.db.
		Where("user_id = ?", *userID).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&reservations).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load reservations")
		return
	}
	utils.Success(ctx, reservations)
}

// Cancel marks one of the caller's reservations cancelled. Completed stays
// are immutable.
func (r *ReservationController) Cancel(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if userID == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40054, "invalid reservation id")
		return
	}

	var reservation models.Reservation
	err = r.db.Where("id = ? AND user_id = ?", id, *userID).Take(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40451, "reservation not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to cancel reservation")
		return
	}

	switch reservation.Status {
	case models.ReservationCancelled:
		utils.Success(ctx, reservation)
		return
	case models.ReservationCompleted:
		utils.Error(ctx, http.StatusConflict, 40903, "completed reservation cannot be cancelled")
		return
	}

	if err := r.db.Model(&reservation).Update("status", models.ReservationCancelled).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to cancel reservation")
		return
	}
	utils.Success(ctx, reservation)
}
