package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campstation/camp/middleware"
	"github.com/campstation/camp/models"
	"github.com/campstation/camp/utils"
)

// ReviewController manages campground reviews.
type ReviewController struct {
	db *gorm.DB
}

// NewReviewController creates a new ReviewController instance.
func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{db: db}
}

// Create posts a review on a campground and bumps its review counter.
func (r *ReviewController) Create(ctx *gin.Context) {
	campgroundID, ok := campgroundParam(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)
	if userID == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Content string `json:"content" binding:"required,min=1,max=2000"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	var exists int64
	if err := r.db.Model(&models.Campground{}).Where("id = ?", campgroundID).Count(&exists).Error; err != nil || exists == 0 {
		utils.Error(ctx, http.StatusNotFound, 40440, "campground not found")
		return
	}

	review := models.Review{
		UserID:       *userID,
		CampgroundID: campgroundID,
		Rating:       req.Rating,
		Content:      utils.Sanitize(strings.TrimSpace(req.Content)),
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Campground{}).Where("id = ?", campgroundID).
			UpdateColumn("review_count", gorm.Expr("review_count + 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to create review")
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", review)
}

// List returns a page of reviews for a campground, newest first.
func (r *ReviewController) List(ctx *gin.Context) {
	campgroundID, ok := campgroundParam(ctx)
	if !ok {
		return
	}

	page, size := pagination(ctx)
	var reviews []models.Review
	err := r.db.
		Preload("User").
		Where("campground_id = ?", campgroundID).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&reviews).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load reviews")
		return
	}
	utils.Success(ctx, reviews)
}
