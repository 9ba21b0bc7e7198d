package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBDriver  string
	JWTKey    string
	SaltRound int

	EmailSender string
	MailApiKey  string // SendGrid API key; emails go to console when empty

	MediaUploadURL    string // Media host unsigned upload endpoint
	MediaUploadPreset string
	MediaFolder       string
	UploadDir         string // Local fallback directory when no media host is configured
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:      getEnv("PORT", "5000"),
		DBDriver:  getEnv("DB_DRIVER", "postgres"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender: getEnv("EMAIL_SENDER", "no-reply@smartmind.io"),
		MailApiKey:  getEnv("MAIL_API_KEY", ""),

		MediaUploadURL:    getEnv("MEDIA_UPLOAD_URL", ""),
		MediaUploadPreset: getEnv("MEDIA_UPLOAD_PRESET", "smartmind"),
		MediaFolder:       getEnv("MEDIA_FOLDER", "smartmind"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.MailApiKey == "" {
		log.Println("Warning: MAIL_API_KEY not set. Emails will be logged to console.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
