package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campstation/camp/middleware"
	"github.com/campstation/camp/models"
	"github.com/campstation/camp/utils"
)

const campgroundCachePrefix = "cache:campgrounds:"

// CampgroundController manages campground listings, sites, and favorites.
type CampgroundController struct {
	db *gorm.DB
}

// NewCampgroundController creates a new CampgroundController instance.
func NewCampgroundController(db *gorm.DB) *CampgroundController {
	return &CampgroundController{db: db}
}

// List returns a page of active campgrounds, optionally filtered by a name
// keyword. Pages are cached briefly since the listing is read-heavy.
func (c *CampgroundController) List(ctx *gin.Context) {
	page, size := pagination(ctx)
	keyword := strings.TrimSpace(ctx.Query("keyword"))

	cacheKey := fmt.Sprintf("%slist:p%d:s%d:k%s", campgroundCachePrefix, page, size, keyword)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	query := c.db.Model(&models.Campground{}).Where("status = ?", models.CampgroundActive)
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load campgrounds")
		return
	}

	var campgrounds []models.Campground
	err := query.
		Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&campgrounds).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load campgrounds")
		return
	}

	payload := gin.H{"items": campgrounds, "total": total, "page": page, "size": size}
	body := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, body, 2*time.Minute)
	ctx.JSON(http.StatusOK, body)
}

// Detail returns one campground with its sites.
func (c *CampgroundController) Detail(ctx *gin.Context) {
	id, ok := campgroundParam(ctx)
	if !ok {
		return
	}

	var campground models.Campground
	err := c.db.Preload("Sites").Take(&campground, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40440, "campground not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load campground")
		return
	}
	utils.Success(ctx, campground)
}

// Create registers a campground owned by the caller. OWNER or ADMIN only.
func (c *CampgroundController) Create(ctx *gin.Context) {
	role := ctx.GetString(middleware.ContextRoleKey)
	if role != models.RoleOwner && role != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40303, "owner privileges required")
		return
	}
	ownerID := middleware.CurrentUserID(ctx)
	if ownerID == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Name         string  `json:"name" binding:"required,min=1,max=200"`
		Description  string  `json:"description"`
		Address      string  `json:"address" binding:"required,max=500"`
		Phone        string  `json:"phone" binding:"omitempty,max=20"`
		Latitude     float64 `json:"latitude"`
		Longitude    float64 `json:"longitude"`
		CheckInTime  string  `json:"checkInTime" binding:"omitempty,len=5"`
		CheckOutTime string  `json:"checkOutTime" binding:"omitempty,len=5"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	campground := models.Campground{
		OwnerID:      *ownerID,
		Name:         utils.Sanitize(strings.TrimSpace(req.Name)),
		Description:  utils.Sanitize(req.Description),
		Address:      strings.TrimSpace(req.Address),
		Phone:        strings.TrimSpace(req.Phone),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Status:       models.CampgroundActive,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
	}
	if err := c.db.Create(&campground).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to create campground")
		return
	}

	utils.InvalidateByPrefix(campgroundCachePrefix)
	utils.Respond(ctx, http.StatusCreated, 0, "success", campground)
}

// Update edits a campground. Only its owner or an admin may.
func (c *CampgroundController) Update(ctx *gin.Context) {
	id, ok := campgroundParam(ctx)
	if !ok {
		return
	}

	var campground models.Campground
	err := c.db.Take(&campground, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40440, "campground not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load campground")
		return
	}

	callerID := middleware.CurrentUserID(ctx)
	role := ctx.GetString(middleware.ContextRoleKey)
	if callerID == nil || (campground.OwnerID != *callerID && role != models.RoleAdmin) {
		utils.Error(ctx, http.StatusForbidden, 40304, "not your campground")
		return
	}

	var req struct {
		Name         *string  `json:"name" binding:"omitempty,min=1,max=200"`
		Description  *string  `json:"description"`
		Address      *string  `json:"address" binding:"omitempty,max=500"`
		Phone        *string  `json:"phone" binding:"omitempty,max=20"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
		Status       *string  `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
		CheckInTime  *string  `json:"checkInTime" binding:"omitempty,len=5"`
		CheckOutTime *string  `json:"checkOutTime" binding:"omitempty,len=5"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = utils.Sanitize(strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		updates["description"] = utils.Sanitize(*req.Description)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.CheckInTime != nil {
		updates["check_in_time"] = *req.CheckInTime
	}
	if req.CheckOutTime != nil {
		updates["check_out_time"] = *req.CheckOutTime
	}
	if len(updates) > 0 {
		if err := c.db.Model(&campground).Updates(updates).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to update campground")
			return
		}
		utils.InvalidateByPrefix(campgroundCachePrefix)
	}
	utils.Success(ctx, campground)
}

// AddSite attaches a bookable site to a campground the caller owns.
func (c *CampgroundController) AddSite(ctx *gin.Context) {
	id, ok := campgroundParam(ctx)
	if !ok {
		return
	}

	var campground models.Campground
	if err := c.db.Take(&campground, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40440, "campground not found")
		return
	}
	callerID := middleware.CurrentUserID(ctx)
	role := ctx.GetString(middleware.ContextRoleKey)
	if callerID == nil || (campground.OwnerID != *callerID && role != models.RoleAdmin) {
		utils.Error(ctx, http.StatusForbidden, 40304, "not your campground")
		return
	}

	var req struct {
		Name          string `json:"name" binding:"required,min=1,max=100"`
		SiteType      string `json:"siteType" binding:"omitempty,max=50"`
		Capacity      int    `json:"capacity" binding:"omitempty,min=1,max=50"`
		PricePerNight int64  `json:"pricePerNight" binding:"required,min=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}
	if req.Capacity == 0 {
		req.Capacity = 4
	}

	site := models.Site{
		CampgroundID:  id,
		Name:          utils.Sanitize(strings.TrimSpace(req.Name)),
		SiteType:      req.SiteType,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
	}
	if err := c.db.Create(&site).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to create site")
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", site)
}

// ToggleFavorite bookmarks or un-bookmarks a campground for the caller and
// keeps the denormalized counter in step.
func (c *CampgroundController) ToggleFavorite(ctx *gin.Context) {
	id, ok := campgroundParam(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)
	if userID == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var exists int64
	if err := c.db.Model(&models.Campground{}).Where("id = ?", id).Count(&exists).Error; err != nil || exists == 0 {
		utils.Error(ctx, http.StatusNotFound, 40440, "campground not found")
		return
	}

	var favorited bool
	err := c.db.Transaction(func(tx *gorm.DB) error {
		var fav models.Favorite
		err := tx.Where("user_id = ? AND campground_id = ?", *userID, id).Take(&fav).Error
		switch {
		case err == nil:
			if err := tx.Delete(&fav).Error; err != nil {
				return err
			}
			favorited = false
			return tx.Model(&models.Campground{}).Where("id = ? AND favorite_count > 0", id).
				UpdateColumn("favorite_count", gorm.Expr("favorite_count - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Favorite{UserID: *userID, CampgroundID: id}).Error; err != nil {
				return err
			}
			favorited = true
			return tx.Model(&models.Campground{}).Where("id = ?", id).
				UpdateColumn("favorite_count", gorm.Expr("favorite_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to toggle favorite")
		return
	}
	utils.Success(ctx, gin.H{"campgroundId": id, "favorited": favorited})
}

// MyFavorites lists the caller's bookmarked campgrounds.
func (c *CampgroundController) MyFavorites(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if userID == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var campgrounds []models.Campground
	err := c.db.
		Joins("JOIN favorites ON favorites.campground_id = campgrounds.id").
		Where("favorites.user_id = ?", *userID).
		Order("favorites.created_at DESC").
		Find(&campgrounds).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to load favorites")
		return
	}
	utils.Success(ctx, campgrounds)
}

func pagination(ctx *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(ctx.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
