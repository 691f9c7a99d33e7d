package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	Admin struct {
		Username     string
		Password     string // used only when PasswordHash is unset
		PasswordHash string
		JWTSecret    string
		SessionTTL   int64 // hours
	}

	Media struct {
		Backend       string // "filesystem" or "minio"
		CandidatesDir string
		QRCodesDir    string
		MaxFileSize   int64

		MinioEndpoint  string
		MinioAccessKey string
		MinioSecretKey string
		MinioBucket    string
		MinioUseSSL    bool
	}

	Frontend struct {
		URL string // base URL embedded in QR code payloads
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "voting")
	config.DB.Password = getEnv("DB_PASSWORD", "voting_password")
	config.DB.Name = getEnv("DB_NAME", "voting_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	config.Admin.Username = getEnv("ADMIN_USERNAME", "admin")
	config.Admin.Password = getEnv("ADMIN_PASSWORD", "admin123")
	config.Admin.PasswordHash = getEnv("ADMIN_PASSWORD_HASH", "")
	config.Admin.JWTSecret = getEnv("ADMIN_JWT_SECRET", "voting-dev-secret")
	config.Admin.SessionTTL = getEnvAsInt64("ADMIN_SESSION_TTL_HOURS", 24)

	config.Media.Backend = getEnv("MEDIA_BACKEND", "filesystem")
	config.Media.CandidatesDir = getEnv("CANDIDATES_DIR", "./candidates")
	config.Media.QRCodesDir = getEnv("QR_CODES_DIR", "./qr-codes")
	config.Media.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 10485760)
	config.Media.MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	config.Media.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.Media.MinioSecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.Media.MinioBucket = getEnv("MINIO_BUCKET", "voting-media")
	config.Media.MinioUseSSL = getEnvAsBool("MINIO_USE_SSL", false)

	config.Frontend.URL = getEnv("FRONTEND_URL", "http://localhost:3000")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
