package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName        string
	AppVersion     string
	Environment    string
	HTTPAddr       string
	PlatformDomain string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RateLimit RateLimitConfig
	Intake    IntakeConfig
}

// RateLimitConfig configures the fixed-window intake limiter.
type RateLimitConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StandardWindowSeconds int
	StandardMaxRequests   int
	PaymentWindowSeconds  int
	PaymentMaxRequests    int
}

// IntakeConfig tunes the public intake pipeline.
type IntakeConfig struct {
	TenantCacheTTL time.Duration
	CancelLeadTime time.Duration
	MaxLineItems   int
	MaxNoteLength  int
	TokenSecret    string
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:      getenv("APP_SERVICE", "bookline"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:    getenv("ENVIRONMENT", "development"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		PlatformDomain: strings.ToLower(strings.TrimSpace(getenv("PLATFORM_DOMAIN", "bookline.site"))),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "bookline"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		RateLimit: RateLimitConfig{
			RedisAddr:             strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword:         strings.TrimSpace(getenv("RATE_LIMIT_REDIS_PASSWORD", "")),
			RedisDB:               getenvInt("RATE_LIMIT_REDIS_DB", 0),
			StandardWindowSeconds: getenvInt("RATE_LIMIT_STANDARD_WINDOW_SECONDS", 60),
			StandardMaxRequests:   getenvInt("RATE_LIMIT_STANDARD_MAX_REQUESTS", 20),
			PaymentWindowSeconds:  getenvInt("RATE_LIMIT_PAYMENT_WINDOW_SECONDS", 60),
			PaymentMaxRequests:    getenvInt("RATE_LIMIT_PAYMENT_MAX_REQUESTS", 5),
		},
		Intake: IntakeConfig{
			TenantCacheTTL: getenvDuration("INTAKE_TENANT_CACHE_TTL", 60*time.Second),
			CancelLeadTime: getenvDuration("INTAKE_CANCEL_LEAD_TIME", 2*time.Hour),
			MaxLineItems:   getenvInt("INTAKE_MAX_LINE_ITEMS", 50),
			MaxNoteLength:  getenvInt("INTAKE_MAX_NOTE_LENGTH", 1000),
			TokenSecret:    getenv("INTAKE_TOKEN_SECRET", "dev-intake-secret"),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
