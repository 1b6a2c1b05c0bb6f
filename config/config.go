package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	StripeSecretKey string

	LogFile string
}

// Load reads configuration from the environment. A .env file is applied
// first when present; missing values fall back to local-dev defaults.
func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		Port:               getEnv("PORT", "3000"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB_NAME", "pms"),
		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", "dev-access-secret"),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", "dev-refresh-secret"),
		AccessTokenTTL:     getDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenTTL:    getDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),
		LogFile:            getEnv("LOG_FILE", "logs/backend.log"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
