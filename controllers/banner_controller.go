package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campstation/camp/models"
	"github.com/campstation/camp/utils"
)

const bannerCacheKey = "cache:banners:active"

// BannerController serves landing-page banners and their admin CRUD.
type BannerController struct {
	db *gorm.DB
}

// NewBannerController creates a new BannerController instance.
func NewBannerController(db *gorm.DB) *BannerController {
	return &BannerController{db: db}
}

// ListActive returns banners currently inside their display window, ordered
// for the landing page. The result is cached briefly.
func (b *BannerController) ListActive(ctx *gin.Context) {
	if cached, ok := utils.CacheGetBytes(bannerCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	now := time.Now()
	var banners []models.Banner
	err := b.db.
		Where("status = ?", models.BannerActive).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("display_order ASC, id ASC").
		Find(&banners).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load banners")
		return
	}

	body := utils.JSONResponse{Code: 0, Message: "success", Data: banners}
	utils.CacheSetJSON(bannerCacheKey, body, time.Minute)
	ctx.JSON(http.StatusOK, body)
}

// Click counts a banner click. Fire-and-forget from the client's view.
func (b *BannerController) Click(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid banner id")
		return
	}

	res := b.db.Model(&models.Banner{}).Where("id = ?", id).
		UpdateColumn("click_count", gorm.Expr("click_count + 1"))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to record click")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40470, "banner not found")
		return
	}
	utils.Success(ctx, nil)
}

// Create adds a banner. Admin only (enforced by route middleware).
func (b *BannerController) Create(ctx *gin.Context) {
	var req struct {
		Title        string     `json:"title" binding:"required,min=1,max=200"`
		Description  string     `json:"description" binding:"omitempty,max=500"`
		ImageURL     string     `json:"imageUrl" binding:"required,url,max=500"`
		LinkURL      string     `json:"linkUrl" binding:"omitempty,url,max=500"`
		DisplayOrder int        `json:"displayOrder"`
		Status       string     `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
		StartDate    *time.Time `json:"startDate"`
		EndDate      *time.Time `json:"endDate"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40071, "invalid request payload")
		return
	}
	if req.Status == "" {
		req.Status = models.BannerInactive
	}

	banner := models.Banner{
		Title:        utils.Sanitize(req.Title),
		Description:  utils.Sanitize(req.Description),
		ImageURL:     req.ImageURL,
		LinkURL:      req.LinkURL,
		DisplayOrder: req.DisplayOrder,
		Status:       req.Status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if err := b.db.Create(&banner).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to create banner")
		return
	}

	utils.InvalidateByPrefix(bannerCacheKey)
	utils.Respond(ctx, http.StatusCreated, 0, "success", banner)
}

// Delete removes a banner. Admin only.
func (b *BannerController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid banner id")
		return
	}

	res := b.db.Delete(&models.Banner{}, id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to delete banner")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40470, "banner not found")
		return
	}

	utils.InvalidateByPrefix(bannerCacheKey)
	utils.Success(ctx, nil)
}
