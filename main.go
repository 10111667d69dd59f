package main

import (
	"time"

	"github.com/campstation/camp/config"
	"github.com/campstation/camp/models"
	"github.com/campstation/camp/routes"
	"github.com/campstation/camp/stats"
	"github.com/campstation/camp/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// Validate the timezone before it goes into the DSN's loc parameter.
	loc, err := time.LoadLocation(cfg.StatsTimezone)
	if err != nil {
		utils.Sugar.Fatalf("invalid stats timezone %q: %v", cfg.StatsTimezone, err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Campground{},
		&models.Site{},
		&models.Favorite{},
		&models.Reservation{},
		&models.Review{},
		&models.Banner{},
		&models.CampgroundViewLog{},
		&models.CampgroundStatsDaily{},
	)

	statsSvc := stats.NewService(db, loc)
	aggregator := stats.NewAggregator(db, loc)
	sweeper := stats.NewSweeper(db, cfg.ViewRetentionDays)
	scheduler := stats.NewScheduler(aggregator, sweeper, loc, cfg.StatsAggregateHour, utils.Sugar)
	scheduler.Start()

	r := routes.SetupRouter(db, statsSvc, scheduler, loc)

	utils.Sugar.Infof("starting server on port %s", cfg.AppPort)
	if err := utils.RunServer(":"+cfg.AppPort, r, scheduler.Stop); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
