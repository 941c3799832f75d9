package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// MongoDB
	MongoURI string
	MongoDB  string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Events
	EventCacheTTL time.Duration
	UploadDir     string

	// Payments
	PaymentSuccessRate float64

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env if present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := getEnv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	return &Config{
		Port:        port,
		Environment: getEnv("ENVIRONMENT", "development"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "eventspark"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		JWTTTL:    getEnvAsDuration("JWT_TTL", "168h"),

		EventCacheTTL: getEnvAsDuration("EVENT_CACHE_TTL", "5m"),
		UploadDir:     getEnv("UPLOAD_DIR", "static/uploads"),

		PaymentSuccessRate: getEnvAsFloat("PAYMENT_SUCCESS_RATE", 0.9),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if duration, err := time.ParseDuration(getEnv(key, defaultValue)); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
