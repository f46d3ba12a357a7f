package bootstrap

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr  string
	LogLevel    string
	CORSOrigins []string

	HMACKey        []byte
	JWTIssuer      string
	CookieSecure   bool
	CookieDomain   string
	AllowedSchemes []string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string

	GoogleAPIKey string
	LiveAPIBase  string
	LiveModel    string
	EmbedModel   string

	LiveKitAPIKey    string
	LiveKitAPISecret string
	LiveKitURL       string

	SessionsPerHour int

	StaticDir string
	IndexHTML string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: parseList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		HMACKey:        []byte(getEnv("HMAC_KEY", "change-me-in-production")),
		JWTIssuer:      getEnv("JWT_ISSUER", "fluentloop"),
		CookieSecure:   getEnv("COOKIE_SECURE", "false") == "true",
		CookieDomain:   getEnv("COOKIE_DOMAIN", ""),
		AllowedSchemes: parseList(getEnv("ALLOWED_SCHEMES", "fluentloop")),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURL:  getEnv("GITHUB_REDIRECT_URL", ""),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		QdrantHost:   getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:   getEnvInt("QDRANT_PORT", 6334),
		QdrantAPIKey: getEnv("QDRANT_API_KEY", ""),

		GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
		LiveAPIBase:  getEnv("LIVE_API_BASE", ""),
		LiveModel:    getEnv("LIVE_MODEL", ""),
		EmbedModel:   getEnv("EMBED_MODEL", ""),

		LiveKitAPIKey:    getEnv("LIVEKIT_API_KEY", ""),
		LiveKitAPISecret: getEnv("LIVEKIT_API_SECRET", ""),
		LiveKitURL:       getEnv("LIVEKIT_URL", ""),

		SessionsPerHour: getEnvInt("SESSIONS_PER_HOUR", 20),

		StaticDir: getEnv("STATIC_DIR", "./static"),
		IndexHTML: getEnv("INDEX_HTML", "./static/index.html"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func parseList(envValue string) []string {
	var items []string
	for _, item := range strings.Split(envValue, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
