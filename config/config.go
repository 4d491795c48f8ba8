package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Env              string
	Port             string
	AppURL           string
	DBURL            string
	Secret           string
	TokenExpiryHours int

	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3BaseEndpoint    string
	S3TimeoutSeconds  int
}

func Load() *Config {
	return &Config{
		Env:              getEnv("ENVIRONMENT", "development"),
		Port:             getEnv("PORT", "8080"),
		AppURL:           getEnv("APP_URL", "http://localhost:5173"),
		DBURL:            mustGetEnv("DB_URL"),
		Secret:           mustGetEnv("SECRET"),
		TokenExpiryHours: getEnvAsInt("TOKEN_EXPIRY_HOURS", 8760),

		S3Region:          getEnv("S3_REGION", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET_NAME", ""),
		S3BaseEndpoint:    getEnv("S3_BASE_ENDPOINT", ""),
		S3TimeoutSeconds:  getEnvAsInt("S3_TIMEOUT_SECONDS", 30),
	}
}

// IsDevelopment selects the relaxed cookie policy (secure=false, lax).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
