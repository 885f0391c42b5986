package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the API server.
type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDatabase string
	CORSOrigin    string

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	MediaUploadTimeout  time.Duration
	MediaMaxRetries     int

	UploadDir      string
	MaxUploadBytes int64

	RedisURL      string
	StatsCacheTTL time.Duration

	AuthRateLimit  int
	AuthRateWindow time.Duration
	AuthRateBurst  int
}

// Load reads a .env file when one is present and then resolves every setting
// from the environment, falling back to development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:          getEnv("PORT", "8000"),
		Env:           getEnv("ENV", "development"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "vidtube"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", "access-secret-change-me"),
		AccessTokenExpiry:  getDuration("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", "refresh-secret-change-me"),
		RefreshTokenExpiry: getDuration("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "vidtube"),
		MediaUploadTimeout:  getDuration("MEDIA_UPLOAD_TIMEOUT", 5*time.Minute),
		MediaMaxRetries:     getInt("MEDIA_MAX_RETRIES", 3),

		UploadDir:      getEnv("UPLOAD_DIR", os.TempDir()),
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 200*1024*1024)),

		RedisURL:      getEnv("REDIS_URL", ""),
		StatsCacheTTL: getDuration("STATS_CACHE_TTL", 30*time.Second),

		AuthRateLimit:  getInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getDuration("AUTH_RATE_WINDOW", time.Minute),
		AuthRateBurst:  getInt("AUTH_RATE_BURST", 5),
	}
}

// IsProduction reports whether cookies and logs should use production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

// getDuration accepts Go duration strings ("15m") as well as the
// jsonwebtoken style day suffix ("10d").
func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if n := len(value); n > 1 && value[n-1] == 'd' {
		days, err := strconv.Atoi(value[:n-1])
		if err != nil {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
