package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Inventory InventoryConfig
	Report    ReportConfig
	Seed      SeedConfig
}

type ServerConfig struct {
	AppName string
	Port    string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret   string
	TTLHours int
}

type InventoryConfig struct {
	// UnitTracking requires one unique tag per unit on add/restock/edit.
	UnitTracking      bool
	LowStockThreshold int
	PageSize          int
	Location          *time.Location
}

type ReportConfig struct {
	HeaderImage string
}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// LoadEnv reads the configuration from the environment (call godotenv.Load first).
func LoadEnv() *Config {
	tz := getEnv("APP_TIMEZONE", "America/Sao_Paulo")
	return &Config{
		Server: ServerConfig{
			AppName: getEnv("APP_NAME", "IT Stock Tracker v1.0"),
			Port:    getEnv("PORT", "3000"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            os.Getenv("DB_HOST"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			Name:            os.Getenv("DB_NAME"),
			TimeZone:        tz,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_SECONDS", 3600)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
			TTLHours: getEnvInt("JWT_TTL_HOURS", 12),
		},
		Inventory: InventoryConfig{
			UnitTracking:      getEnvBool("UNIT_TRACKING", true),
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 1),
			PageSize:          getEnvInt("PAGE_SIZE", 10),
			Location:          LoadLocation(tz),
		},
		Report: ReportConfig{
			HeaderImage: getEnv("REPORT_HEADER_IMAGE", "static/header.png"),
		},
		Seed: SeedConfig{
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
	}
}

// LoadLocation resolves an IANA zone name, falling back to UTC-3 when the
// zone database is not available in the container.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
