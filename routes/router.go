package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campstation/camp/config"
	"github.com/campstation/camp/controllers"
	"github.com/campstation/camp/middleware"
	"github.com/campstation/camp/stats"
	"github.com/campstation/camp/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, statsSvc *stats.Service, scheduler *stats.Scheduler, loc *time.Location) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.RequestLogger())
	r.Use(utils.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := controllers.NewAuthController(db)
	campground := controllers.NewCampgroundController(db)
	reservation := controllers.NewReservationController(db, loc)
	review := controllers.NewReviewController(db)
	banner := controllers.NewBannerController(db)
	statsCtl := controllers.NewStatsController(statsSvc)
	admin := controllers.NewAdminController(db, scheduler, loc)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimit("auth", 30))
		{
			authGroup.POST("/register", auth.Register)
			authGroup.POST("/login", auth.Login)
			authGroup.POST("/logout", middleware.AuthRequired(), auth.Logout)
			authGroup.GET("/me", middleware.AuthRequired(), auth.Me)
			authGroup.GET("/oauth/:provider", auth.OAuthRedirect)
			authGroup.GET("/oauth/:provider/callback", auth.OAuthCallback)
		}

		campgrounds := api.Group("/campgrounds")
		{
			campgrounds.GET("", campground.List)
			campgrounds.GET("/:id", campground.Detail)
			campgrounds.POST("", middleware.AuthRequired(), campground.Create)
			campgrounds.PUT("/:id", middleware.AuthRequired(), campground.Update)
			campgrounds.POST("/:id/sites", middleware.AuthRequired(), campground.AddSite)
			campgrounds.POST("/:id/favorite", middleware.AuthRequired(), campground.ToggleFavorite)

			campgrounds.GET("/:id/reviews", review.List)
			campgrounds.POST("/:id/reviews", middleware.AuthRequired(), review.Create)

			// View ingestion is anonymous but identity rides along when a
			// valid token is present; both ping endpoints share one budget.
			ingest := campgrounds.Group("")
			ingest.Use(middleware.RateLimit("viewlog", cfg.RateLimitPerMinute), middleware.OptionalAuth())
			{
				ingest.POST("/:id/view-log", statsCtl.RecordView)
				ingest.POST("/:id/view-duration", statsCtl.RecordDuration)
			}

			campgrounds.GET("/:id/view-count", statsCtl.ViewCount)
			campgrounds.GET("/:id/stats", statsCtl.Stats)
		}

		api.GET("/favorites", middleware.AuthRequired(), campground.MyFavorites)

		reservations := api.Group("/reservations", middleware.AuthRequired())
		{
			reservations.POST("", reservation.Create)
			reservations.GET("", reservation.MyReservations)
			reservations.POST("/:id/cancel", reservation.Cancel)
		}

		banners := api.Group("/banners")
		{
			banners.GET("", banner.ListActive)
			banners.POST("/:id/click", banner.Click)
		}

		adminGroup := api.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
		{
			adminGroup.GET("/dashboard", admin.Dashboard)
			adminGroup.POST("/stats/aggregate", admin.AggregateStats)
			adminGroup.POST("/banners", banner.Create)
			adminGroup.DELETE("/banners/:id", banner.Delete)
		}
	}

	return r
}
