package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all runtime configuration. Sensitive values have no code
// defaults and must come from config.json or the environment.
type AppConfig struct {
	AppPort   string `json:"AppPort"`
	GinMode   string `json:"GinMode"`
	JWTSecret string `json:"JWTSecret"`

	DatabaseURI string `json:"DatabaseURI"`
	DBHost      string `json:"DBHost"`
	DBPort      string `json:"DBPort"`
	DBUser      string `json:"DBUser"`
	DBPassword  string `json:"DBPassword"`
	DBName      string `json:"DBName"`

	RedisHost     string `json:"RedisHost"`
	RedisPort     int    `json:"RedisPort"`
	RedisDB       int    `json:"RedisDB"`
	RedisPassword string `json:"RedisPassword"`

	AllowedOrigins     []string `json:"AllowedOrigins"`
	RateLimitPerMinute int      `json:"RateLimitPerMinute"`

	GoogleClientID     string `json:"GoogleClientID"`
	GoogleClientSecret string `json:"GoogleClientSecret"`
	KakaoClientID      string `json:"KakaoClientID"`
	KakaoClientSecret  string `json:"KakaoClientSecret"`
	OAuthRedirectBase  string `json:"OAuthRedirectBase"`

	LogLevel      string `json:"LogLevel"`
	LogPath       string `json:"LogPath"`
	LogMaxSizeMB  int    `json:"LogMaxSizeMB"`
	LogMaxBackups int    `json:"LogMaxBackups"`
	LogMaxAgeDays int    `json:"LogMaxAgeDays"`
	LogCompress   bool   `json:"LogCompress"`

	// View statistics pipeline.
	StatsTimezone      string `json:"StatsTimezone"`
	StatsAggregateHour int    `json:"StatsAggregateHour"`
	ViewRetentionDays  int    `json:"ViewRetentionDays"`
}

var (
	cfg    AppConfig
	loaded bool
)

// Load reads configuration once during boot. Precedence: config/config.json
// -> defaults -> environment variables (.env is merged into the environment
// first, without overriding already-set variables).
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = godotenv.Load()

	if f, err := os.Open(filepath.Join("config", "config.json")); err == nil {
		dec := json.NewDecoder(f)
		if err := dec.Decode(&cfg); err != nil {
			log.Fatalf("invalid config/config.json: %v", err)
		}
		f.Close()
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in config or environment")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "campstation"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	if c.OAuthRedirectBase == "" {
		c.OAuthRedirectBase = "http://localhost:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.StatsTimezone == "" {
		c.StatsTimezone = "Asia/Seoul"
	}
	if c.ViewRetentionDays == 0 {
		c.ViewRetentionDays = 90
	}
	// StatsAggregateHour zero value means midnight, which is the default.
}

func applyEnvOverrides(c *AppConfig) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Fatalf("invalid integer for %s: %q", key, v)
			}
			*dst = n
		}
	}

	setStr(&c.AppPort, "APP_PORT")
	setStr(&c.GinMode, "GIN_MODE")
	setStr(&c.JWTSecret, "JWT_SECRET")
	setStr(&c.DatabaseURI, "DATABASE_URI")
	setStr(&c.DBHost, "DB_HOST")
	setStr(&c.DBPort, "DB_PORT")
	setStr(&c.DBUser, "DB_USER")
	setStr(&c.DBPassword, "DB_PASSWORD")
	setStr(&c.DBName, "DB_NAME")
	setStr(&c.RedisHost, "REDIS_HOST")
	setInt(&c.RedisPort, "REDIS_PORT")
	setInt(&c.RedisDB, "REDIS_DB")
	setStr(&c.RedisPassword, "REDIS_PASSWORD")
	setInt(&c.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
	setStr(&c.GoogleClientID, "GOOGLE_CLIENT_ID")
	setStr(&c.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	setStr(&c.KakaoClientID, "KAKAO_CLIENT_ID")
	setStr(&c.KakaoClientSecret, "KAKAO_CLIENT_SECRET")
	setStr(&c.OAuthRedirectBase, "OAUTH_REDIRECT_BASE_URL")
	setStr(&c.LogLevel, "LOG_LEVEL")
	setStr(&c.LogPath, "LOG_PATH")
	setInt(&c.LogMaxSizeMB, "LOG_MAX_SIZE_MB")
	setInt(&c.LogMaxBackups, "LOG_MAX_BACKUPS")
	setInt(&c.LogMaxAgeDays, "LOG_MAX_AGE_DAYS")
	setStr(&c.StatsTimezone, "STATS_TIMEZONE")
	setInt(&c.StatsAggregateHour, "STATS_AGGREGATE_HOUR")
	setInt(&c.ViewRetentionDays, "VIEW_RETENTION_DAYS")

	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		c.LogCompress = v == "true"
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		items := []string{}
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		if len(items) > 0 {
			c.AllowedOrigins = items
		}
	}
}
