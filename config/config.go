package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`

	// Remote REST backend.
	BackendURL     string        `mapstructure:"BACKEND_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDraftDB   int    `mapstructure:"REDIS_DRAFT_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Draft persistence: "redis", "mongo" or "memory".
	DraftStore      string        `mapstructure:"DRAFT_STORE"`
	DraftTTL        time.Duration `mapstructure:"DRAFT_TTL"`
	ConsoleStateTTL time.Duration `mapstructure:"CONSOLE_STATE_TTL"`

	// Console sessions.
	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`

	// Browse.
	NearbyRadiusKm float64 `mapstructure:"NEARBY_RADIUS_KM"`
	PageSize       int     `mapstructure:"PAGE_SIZE"`

	// Signup wizard.
	SubmitRedirectDelay  time.Duration `mapstructure:"SUBMIT_REDIRECT_DELAY"`
	PartnerDashboardPath string        `mapstructure:"PARTNER_DASHBOARD_PATH"`
	GeolocationTimeout   time.Duration `mapstructure:"GEOLOCATION_TIMEOUT"`
	GeoIPURL             string        `mapstructure:"GEOIP_URL"`
	UploadMaxBytes       int64         `mapstructure:"UPLOAD_MAX_BYTES"`
	StrictStepJumps      bool          `mapstructure:"STRICT_STEP_JUMPS"`
	MountIdleTimeout     time.Duration `mapstructure:"MOUNT_IDLE_TIMEOUT"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("BACKEND_URL", "http://localhost:5000/api")
	viper.SetDefault("BACKEND_TIMEOUT", 15*time.Second)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DRAFT_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "platter")
	viper.SetDefault("DRAFT_STORE", "redis")
	viper.SetDefault("DRAFT_TTL", 7*24*time.Hour)
	viper.SetDefault("CONSOLE_STATE_TTL", 30*24*time.Hour)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SESSION_TTL", 12*time.Hour)
	viper.SetDefault("NEARBY_RADIUS_KM", 10.0)
	viper.SetDefault("PAGE_SIZE", 12)
	viper.SetDefault("SUBMIT_REDIRECT_DELAY", 2*time.Second)
	viper.SetDefault("PARTNER_DASHBOARD_PATH", "/restaurant/dashboard")
	viper.SetDefault("GEOLOCATION_TIMEOUT", 10*time.Second)
	viper.SetDefault("GEOIP_URL", "http://ip-api.com/json/")
	viper.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	viper.SetDefault("STRICT_STEP_JUMPS", false)
	viper.SetDefault("MOUNT_IDLE_TIMEOUT", 2*time.Hour)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
