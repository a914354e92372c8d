package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	FrontendURL   string
	TokenExpiry   time.Duration
	// DB Pool
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Cache TTLs
	CacheCategoryTTL time.Duration
	CacheStatsTTL    time.Duration
	// Payments
	CheckoutAPIURL string
	CheckoutAPIKey string
	Currency       string
	// Business Rules
	MaxCartQuantity   int
	LowStockThreshold int
}

func LoadConfig() *Config {
	// Allow a specific config file via env var; otherwise try the
	// standard .env. In docker/prod we rely on system env vars, so a
	// missing file is not an error.
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),
		TokenExpiry:   getDurationEnv("TOKEN_EXPIRY", time.Hour*24*7), // Default 7d sessions

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// Cache defaults: 10m categories, 5m dashboard stats
		CacheCategoryTTL: getDurationEnv("CACHE_CATEGORY_TTL", 10*time.Minute),
		CacheStatsTTL:    getDurationEnv("CACHE_STATS_TTL", 5*time.Minute),

		CheckoutAPIURL: getEnv("CHECKOUT_API_URL", ""),
		CheckoutAPIKey: getEnv("CHECKOUT_API_KEY", ""),
		Currency:       getEnv("CURRENCY", "usd"),

		MaxCartQuantity:   getIntEnv("MAX_CART_QUANTITY", 1000),
		LowStockThreshold: getIntEnv("LOW_STOCK_THRESHOLD", 10),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Set JWT_SECRET in production.")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
