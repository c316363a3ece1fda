package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Database
	DBDriver   string // "sqlite" (default) or "postgres"
	DBPath     string // sqlite file path
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Uploads
	UploadsPath       string
	UploadMaxFileSize int64

	// Optional S3 mirror for uploaded assets
	S3Enabled         bool
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3PublicURL       string
	S3UsePathStyle    bool

	// Generative AI
	GeminiModel string
	GoogleAIKey string // fallback when no key is stored in settings

	// CORS
	AllowedOrigins []string
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "data/storyboard.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "storyboard"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "storyboard"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		// Uploads
		UploadsPath:       getEnv("UPLOADS_PATH", "uploads"),
		UploadMaxFileSize: getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 25*1024*1024),

		// S3
		S3Enabled:         getEnv("S3_ENABLED", "false") == "true",
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET", "storyboard-assets"),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		S3UsePathStyle:    getEnv("S3_USE_PATH_STYLE", "true") == "true",

		// Generative AI
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GoogleAIKey: getEnv("GOOGLE_AI_API_KEY", ""),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
