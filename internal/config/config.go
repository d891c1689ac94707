package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	SessionTokenTTL time.Duration
	SessionTTL      time.Duration
	CatalogBaseURL  string
	CatalogTimeout  time.Duration
	SuggestDebounce time.Duration
	StagingDir      string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "shoponboarding"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		SessionTokenTTL: getDurationEnv("SESSION_TOKEN_TTL", 120, time.Minute),
		SessionTTL:      getDurationEnv("SESSION_TTL", 7, 24*time.Hour),
		CatalogBaseURL:  getEnvOrDefault("CATALOG_BASE_URL", "http://localhost:9000"),
		CatalogTimeout:  getDurationEnv("CATALOG_TIMEOUT", 10, time.Second),
		SuggestDebounce: getDurationEnv("SUGGEST_DEBOUNCE_MS", 300, time.Millisecond),
		StagingDir:      getEnvOrDefault("STAGING_DIR", "/app/public/uploads/staging"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
