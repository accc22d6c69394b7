package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Session storage
	SessionStore string
	SessionTTL   time.Duration
	RedisAddr    string
	RedisPassword string
	RedisTLS      bool

	// Order wallet storage
	DatabaseURL string

	// Companion-app backend (SMS inbox + push notifications)
	BackendBaseURL string
	BackendAPIKey  string
	BackendTimeout time.Duration

	// Navigation providers
	NavGeocodeURL string
	NavRouteURL   string
	NavTimeout    time.Duration

	// Owner identity for notifications and default delivery destination
	OwnerPhone  string
	HomeAddress string

	// LLM phrasing
	GeminiAPIKey  string
	GeminiModelID string

	// Dialogue tuning
	SMSWindowSize     int
	MaxClarifyRetries int
	DefaultLanguage   string

	AdminJWTSecret string
	CallToken      string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		BackendBaseURL: getEnv("BACKEND_BASE_URL", ""),
		BackendAPIKey:  getEnv("BACKEND_API_KEY", ""),
		BackendTimeout: getEnvAsDuration("BACKEND_TIMEOUT", 5*time.Second),

		NavGeocodeURL: getEnv("NAV_GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		NavRouteURL:   getEnv("NAV_ROUTE_URL", "https://router.project-osrm.org"),
		NavTimeout:    getEnvAsDuration("NAV_TIMEOUT", 8*time.Second),

		OwnerPhone:  getEnv("OWNER_PHONE", ""),
		HomeAddress: getEnv("HOME_ADDRESS", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.0-flash"),

		SMSWindowSize:     clampWindow(getEnvAsInt("SMS_WINDOW_SIZE", 10)),
		MaxClarifyRetries: getEnvAsInt("MAX_CLARIFY_RETRIES", 3),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		CallToken:      getEnv("CALL_TOKEN", ""),
	}
}

// The backend inbox never returns more than ten messages per fetch.
func clampWindow(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
