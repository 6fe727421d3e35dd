package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Placeholder credential used when no real key is configured, so the
// layer constructs cleanly in a non-functional demo mode.
const placeholderKey = "demo-key"

type ProviderConfig struct {
	BaseURL     string
	APIKey      string
	MaxRequests int
	Window      time.Duration
}

type Config struct {
	Port string

	CacheEnabled bool
	RedisEnabled bool
	RedisHost    string
	RedisPort    string
	CacheTTL     time.Duration

	// Inbound throttling.
	IPRateLimit float64
	IPRateBurst int

	Flights       ProviderConfig
	FlightGateway string
	Stays         ProviderConfig
	Tours         ProviderConfig
	Weather       ProviderConfig
}

// Load reads configuration from the environment, falling back to sane
// defaults. A missing .env file is fine.
func Load(logger *slog.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	return Config{
		Port: getEnv("PORT", "8080"),

		CacheEnabled: getEnvBool("CACHE_ENABLED", true),
		RedisEnabled: getEnvBool("REDIS_ENABLED", false),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),

		IPRateLimit: getEnvFloat("IP_RATE_LIMIT", 10),
		IPRateBurst: getEnvInt("IP_RATE_BURST", 20),

		Flights: ProviderConfig{
			BaseURL:     getEnv("SKYSCANNER_BASE_URL", "https://partners.api.skyscanner.net/apiservices/v3"),
			APIKey:      getEnv("SKYSCANNER_API_KEY", placeholderKey),
			MaxRequests: getEnvInt("SKYSCANNER_MAX_REQUESTS", 50),
			Window:      getEnvDuration("SKYSCANNER_WINDOW", time.Minute),
		},
		FlightGateway: getEnv("SKYSCANNER_GATEWAY_KEY", placeholderKey),
		Stays: ProviderConfig{
			BaseURL:     getEnv("HOSTELWORLD_BASE_URL", "https://api.hostelworld.com/v2"),
			APIKey:      getEnv("HOSTELWORLD_API_KEY", placeholderKey),
			MaxRequests: getEnvInt("HOSTELWORLD_MAX_REQUESTS", 40),
			Window:      getEnvDuration("HOSTELWORLD_WINDOW", time.Minute),
		},
		Tours: ProviderConfig{
			BaseURL:     getEnv("TOURRADAR_BASE_URL", "https://api.tourradar.com/v1"),
			APIKey:      getEnv("TOURRADAR_API_KEY", placeholderKey),
			MaxRequests: getEnvInt("TOURRADAR_MAX_REQUESTS", 40),
			Window:      getEnvDuration("TOURRADAR_WINDOW", time.Minute),
		},
		Weather: ProviderConfig{
			BaseURL:     getEnv("OPENWEATHERMAP_BASE_URL", "https://api.openweathermap.org"),
			APIKey:      getEnv("OPENWEATHERMAP_API_KEY", placeholderKey),
			MaxRequests: getEnvInt("OPENWEATHERMAP_MAX_REQUESTS", 60),
			Window:      getEnvDuration("OPENWEATHERMAP_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
