package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret     string
	SessionExpiry time.Duration

	FrontendURL string
	BackendURL  string

	AuthService AuthServiceConfig
	Media       MediaConfig
	SuperAdmin  SuperAdminConfig
}

// AuthServiceConfig points at the identity microservice that performs the
// actual Google sign-in and issues verifiable ID tokens.
type AuthServiceConfig struct {
	URL          string
	ClientID     string
	ClientSecret string
}

type MediaConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type SuperAdminConfig struct {
	// Domains lists domain prefixes that resolve to the platform operator
	// context instead of a tenant.
	Domains []string
	// Emails is the allow-list that grants super_admin on first login.
	Emails []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	sessionExpiry, err := time.ParseDuration(getEnv("SESSION_EXPIRY", "168h"))
	if err != nil {
		sessionExpiry = 168 * time.Hour
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnvOrPanic("DATABASE_URL"),

		JWTSecret:     getEnvOrPanic("JWT_SECRET"),
		SessionExpiry: sessionExpiry,

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:  getEnv("BACKEND_URL", "http://localhost:3000"),

		AuthService: AuthServiceConfig{
			URL:          getEnvOrPanic("AUTH_SERVICE_URL"),
			ClientID:     getEnv("AUTH_SERVICE_CLIENT_ID", ""),
			ClientSecret: getEnv("AUTH_SERVICE_CLIENT_SECRET", ""),
		},

		Media: MediaConfig{
			CloudName: getEnv("MEDIA_CLOUD_NAME", ""),
			APIKey:    getEnv("MEDIA_API_KEY", ""),
			APISecret: getEnv("MEDIA_API_SECRET", ""),
		},

		SuperAdmin: SuperAdminConfig{
			Domains: splitList(getEnv("SUPER_ADMIN_DOMAINS", "")),
			Emails:  splitList(getEnv("SUPER_ADMIN_EMAILS", "")),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
