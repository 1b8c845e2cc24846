package settings

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var lock = &sync.Mutex{}
var singleSettingsInstace *settings

type settings struct {
	JWT_SECRET_KEY      string
	ACCESS_TOKEN_TTL    time.Duration
	REFRESH_TOKEN_TTL   time.Duration
	MONGO_DB            string
	MONGO_ROOT_USERNAME string
	MONGO_ROOT_PASSWORD string
	MONGO_HOST          string
	MONGO_CONNECTION    string
	REDIS_HOST          string
	REDIS_PASSWORD      string
	REDIS_DB            int
	NATS_HOST           string
	AWS_BUCKET          string
	AWS_REGION          string
	ELS_HOST            string
	ELS_PASSWORD        string
	ELS_PORT            int
	ELS_USERNAME        string
	SENDGRID_API_KEY    string
	MAIL_FROM           string
	ROLLBAR_TOKEN       string
	GRADE_MIN           int
	GRADE_MAX           int
	APP_NAME            string
	CLIENT_URL          string
	NODE_ENV            string
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("%s must be a number: %v", key, err)
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("%s must be a duration: %v", key, err)
	}
	return d
}

func newSettings() *settings {
	return &settings{
		JWT_SECRET_KEY:      getEnv("JWT_SECRET_KEY", "xams-development-secret"),
		ACCESS_TOKEN_TTL:    getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		REFRESH_TOKEN_TTL:   getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		MONGO_DB:            getEnv("MONGO_DB", "xams"),
		MONGO_ROOT_USERNAME: os.Getenv("MONGO_ROOT_USERNAME"),
		MONGO_ROOT_PASSWORD: os.Getenv("MONGO_ROOT_PASSWORD"),
		MONGO_HOST:          getEnv("MONGO_HOST", "localhost"),
		MONGO_CONNECTION:    getEnv("MONGO_CONNECTION", "mongodb"),
		REDIS_HOST:          getEnv("REDIS_HOST", "localhost:6379"),
		REDIS_PASSWORD:      os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:            getEnvInt("REDIS_DB", 0),
		NATS_HOST:           getEnv("NATS_HOST", "localhost"),
		ELS_HOST:            getEnv("ELS_HOST", "localhost"),
		ELS_PORT:            getEnvInt("ELS_PORT", 9200),
		ELS_PASSWORD:        os.Getenv("ELS_PASSWORD"),
		ELS_USERNAME:        os.Getenv("ELS_USERNAME"),
		AWS_BUCKET:          os.Getenv("AWS_BUCKET"),
		AWS_REGION:          getEnv("AWS_REGION", "us-east-1"),
		SENDGRID_API_KEY:    os.Getenv("SENDGRID_API_KEY"),
		MAIL_FROM:           getEnv("MAIL_FROM", "noreply@xams.local"),
		ROLLBAR_TOKEN:       os.Getenv("ROLLBAR_TOKEN"),
		GRADE_MIN:           getEnvInt("GRADE_MIN", 0),
		GRADE_MAX:           getEnvInt("GRADE_MAX", 100),
		APP_NAME:            getEnv("APP_NAME", "XAMS"),
		CLIENT_URL:          getEnv("CLIENT_URL", "localhost:3000"),
		NODE_ENV:            getEnv("NODE_ENV", "dev"),
	}
}

func init() {
	if os.Getenv("NODE_ENV") != "prod" {
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(); err != nil {
				log.Fatalf("Error loading .env file: %v", err)
			}
		}
	}
}

func GetSettings() *settings {
	lock.Lock()
	defer lock.Unlock()
	if singleSettingsInstace == nil {
		singleSettingsInstace = newSettings()
	}
	return singleSettingsInstace
}

func (s *settings) IsProd() bool {
	return s.NODE_ENV == "prod"
}
