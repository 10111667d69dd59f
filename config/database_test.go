package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSNUsesStatsTimezone(t *testing.T) {
	cfg := AppConfig{
		DBUser:        "camp",
		DBPassword:    "secret",
		DBHost:        "db.internal",
		DBPort:        "3306",
		DBName:        "campstation",
		StatsTimezone: "Asia/Seoul",
	}

	dsn := buildDSN(cfg)
	assert.Equal(t,
		"camp:secret@tcp(db.internal:3306)/campstation?charset=utf8mb4&parseTime=True&loc=Asia%2FSeoul",
		dsn)
	// The driver re-zones outgoing time.Time into loc; anything but the
	// stats timezone here would shift local-midnight stat dates by a day.
	assert.Contains(t, dsn, "loc=Asia%2FSeoul")
}

func TestBuildDSNPrefersDatabaseURI(t *testing.T) {
	cfg := AppConfig{
		DatabaseURI:   "user:pw@tcp(somewhere:3306)/other?parseTime=True&loc=UTC",
		StatsTimezone: "Asia/Seoul",
	}
	assert.Equal(t, cfg.DatabaseURI, buildDSN(cfg))
}
