package config

import (
	"os"
	"strconv"
)

// Config holds all environment-driven settings for the auth backend.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	JWTSecretKey   string
	JWTExpireHours int

	SessionSecret  string
	FrontendOrigin string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	InstagramAppID       string
	InstagramAppSecret   string
	InstagramRedirectURL string
}

func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "aimex"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecretKey:   os.Getenv("JWT_SECRET_KEY"),
		JWTExpireHours: getenvInt("JWT_EXPIRE_HOURS", 24),

		SessionSecret:  os.Getenv("SESSION_SECRET"),
		FrontendOrigin: getenv("FRONTEND_ORIGIN", "http://localhost:3000"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		InstagramAppID:       os.Getenv("INSTAGRAM_APP_ID"),
		InstagramAppSecret:   os.Getenv("INSTAGRAM_APP_SECRET"),
		InstagramRedirectURL: os.Getenv("INSTAGRAM_REDIRECT_URL"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
