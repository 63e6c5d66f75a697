package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Measurement store backends.
const (
	MeasurementStoreDatabase = "database"
	MeasurementStoreMongo    = "mongo"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string
	HTTPAddr    string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// MeasurementStore selects where measurement rows live. Catalog data
	// (meters, accounts, run metadata) always lives in the relational store.
	MeasurementStore string
	MongoURI         string
	MongoDatabase    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	Measurement MeasurementConfig
	Alerts      AlertsConfig
}

// MeasurementConfig carries the ingestion thresholds.
type MeasurementConfig struct {
	// RateWindow is the minimum spacing between accepted measurements for
	// one meter.
	RateWindow time.Duration
	// SeriesReadLimit bounds how many rows a series query may pull.
	SeriesReadLimit int
}

// AlertsConfig carries the sweep and detector thresholds.
type AlertsConfig struct {
	SweepCooldown         time.Duration
	NoReportsThreshold    time.Duration
	MeasurementLookback   time.Duration
	ConstantFlowThreshold int
	MetersPageSize        int
	LookbackPageSize      int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "aquaflow"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "aquaflow"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		MeasurementStore: normalizeMeasurementStore(getenv("MEASUREMENT_STORE", MeasurementStoreDatabase)),
		MongoURI:         getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getenv("MONGO_DATABASE", "aquaflow"),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		SMTPHost:     strings.TrimSpace(getenv("SMTP_HOST", "")),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", "alerts@aquaflow.local"),

		Measurement: MeasurementConfig{
			RateWindow:      getenvMinutes("MEASUREMENT_RATE_WINDOW_MINUTES", 10),
			SeriesReadLimit: getenvInt("MEASUREMENT_SERIES_READ_LIMIT", 2500),
		},
		Alerts: AlertsConfig{
			SweepCooldown:         getenvMinutes("ALERT_SWEEP_COOLDOWN_MINUTES", 20),
			NoReportsThreshold:    getenvMinutes("ALERT_NO_REPORTS_THRESHOLD_MINUTES", 24*60),
			MeasurementLookback:   getenvMinutes("ALERT_MEASUREMENT_LOOKBACK_MINUTES", 120),
			ConstantFlowThreshold: getenvInt("ALERT_CONSTANT_FLOW_THRESHOLD", 5),
			MetersPageSize:        getenvInt("ALERT_METERS_PAGE_SIZE", 100),
			LookbackPageSize:      getenvInt("ALERT_LOOKBACK_PAGE_SIZE", 10),
		},
	}
}

func normalizeMeasurementStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case MeasurementStoreMongo:
		return MeasurementStoreMongo
	default:
		return MeasurementStoreDatabase
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

func getenvMinutes(key string, def int) time.Duration {
	return time.Duration(getenvInt(key, def)) * time.Minute
}
