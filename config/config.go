package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	Store  StoreConfig
	Email  EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// AWSConfig holds shared AWS credentials and region.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// StoreConfig selects and configures the visitor record store.
type StoreConfig struct {
	Driver string // "dynamodb" or "memory" (tests/local)
	Table  string
	Index  string // GSI on (CreatedBy, Status)
}

// EmailConfig holds the notification sender. An empty Sender disables email.
type EmailConfig struct {
	Sender string
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "dynamodb"),
			Table:  getEnv("VISITOR_TABLE", "VisitorRequest"),
			Index:  getEnv("VISITOR_USER_STATUS_INDEX", "GSI_UserStatus"),
		},
		Email: EmailConfig{
			Sender: getEnv("SENDER_EMAIL", ""),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
