// Package config gathers the server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/effiwise/effimappro/model"
	"github.com/joho/godotenv"
)

// Config is every setting the server reads at startup
type Config struct {
	Port        string
	DBBackend   string
	BaseURL     string
	CORSOrigins string

	JWTSecret          string
	TokenTTL           time.Duration
	GitHubClientID     string
	GitHubClientSecret string
	DefaultRole        string
	RBACConfigPath     string

	SessionIdle time.Duration

	RedisHost string
	RedisPort string
	RedisPass string
	RedisDB   int

	NominatimURL       string
	NominatimUserAgent string
	NominatimRPS       float64
	GeocodeCacheTTL    time.Duration

	KafkaBrokers       []string
	KafkaAPIKey        string
	KafkaAPISecret     string
	KafkaActivityTopic string

	// SMTP - contact form mail is logged when not configured
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SalesEmail   string

	ContactRateLimit int
}

// LoadDotEnv reads a .env file into the environment if one exists. Values
// already set in the environment win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// Load reads the configuration from the environment
func Load() Config {
	return Config{
		Port:      getenv("MS_PORT", "3000"),
		DBBackend: getenv("DB_BACKEND", "arango"),
		BaseURL:   getenv("BASE_URL", "http://localhost:3000"),

		CORSOrigins: getenv("CORS_ORIGINS", ""),

		JWTSecret:          getenv("JWT_SECRET", ""),
		TokenTTL:           time.Duration(getenvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		GitHubClientID:     getenv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getenv("GITHUB_CLIENT_SECRET", ""),
		DefaultRole:        getenv("DEFAULT_ROLE", "admin"),
		RBACConfigPath:     getenv("RBAC_CONFIG_PATH", ""),

		SessionIdle: time.Duration(getenvInt("SESSION_IDLE_MINUTES", 120)) * time.Minute,

		RedisHost: getenv("REDIS_HOST", ""),
		RedisPort: getenv("REDIS_PORT", "6379"),
		RedisPass: getenv("REDIS_PASS", ""),
		RedisDB:   getenvInt("REDIS_DB", 0),

		NominatimURL:       getenv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: getenv("NOMINATIM_USER_AGENT", "EffiMapPro/1.0 (support@effiwise.com)"),
		NominatimRPS:       getenvFloat("NOMINATIM_RPS", 1),
		GeocodeCacheTTL:    time.Duration(getenvInt("GEOCODE_CACHE_TTL_SECONDS", 86400)) * time.Second,

		KafkaBrokers:       splitList(getenv("KAFKA_BROKERS", "")),
		KafkaAPIKey:        getenv("KAFKA_API_KEY", ""),
		KafkaAPISecret:     getenv("KAFKA_API_SECRET", ""),
		KafkaActivityTopic: getenv("KAFKA_ACTIVITY_TOPIC", "effimappro-activities"),

		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM_EMAIL", "noreply@effiwise.com"),
		SMTPFromName: getenv("SMTP_FROM_NAME", "EffiMapPro"),
		SalesEmail:   getenv("SALES_EMAIL", "sales@effiwise.com"),

		ContactRateLimit: getenvInt("CONTACT_RATE_LIMIT", 5),
	}
}

// Validate rejects settings the server cannot run with
func (c Config) Validate() error {
	if !model.IsValidRole(c.DefaultRole) {
		return fmt.Errorf("DEFAULT_ROLE %q must be %q or %q", c.DefaultRole, model.RoleAdmin, model.RoleViewer)
	}
	switch c.DBBackend {
	case "arango", "memory":
	default:
		return fmt.Errorf("DB_BACKEND %q must be \"arango\" or \"memory\"", c.DBBackend)
	}
	return nil
}

// RedisAddr returns host:port, or "" when no Redis host is configured
func (c Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
