package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"agriconnect-api/pkg/database"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"
)

// Config is built once at start-up and handed to the components that need it.
type Config struct {
	Port     string
	LogLevel string
	Database database.Config

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	WeatherEndpoint string
	WeatherAPIKey   string
	WeatherTimeout  time.Duration

	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string
	LLMTimeout  time.Duration
	AskAIRate   int // requests per minute per client IP, 0 disables the limit

	RedisAddr    string
	KafkaBrokers []string
	KafkaTopic   string
}

const defaultJWTSecret = "change-me-in-production"

// Load reads .env (when present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) Config {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(get(k, "")); err == nil && d > 0 {
			return d
		}
		return def
	}
	num := func(k string, def int) int {
		if n, err := strconv.Atoi(get(k, "")); err == nil && n >= 0 {
			return n
		}
		return def
	}

	cfg := Config{
		Port:     get("PORT", "3000"),
		LogLevel: get("LOG_LEVEL", "info"),
		Database: database.Config{
			Driver:     get("DB_DRIVER", database.DriverPostgres),
			URL:        get("DATABASE_URL", ""),
			Host:       get("DB_HOST", "localhost"),
			User:       get("DB_USER", "postgres"),
			Password:   get("DB_PASSWORD", ""),
			Name:       get("DB_NAME", "agriconnect"),
			Port:       get("DB_PORT", "5432"),
			SQLitePath: get("SQLITE_PATH", "agriconnect.db"),
			LogLevel:   logger.Warn,
		},
		JWTSecret:       get("JWT_SECRET", defaultJWTSecret),
		AccessTTL:       dur("JWT_ACCESS_TTL", 60*time.Minute),
		RefreshTTL:      dur("JWT_REFRESH_TTL", 7*24*time.Hour),
		WeatherEndpoint: get("OPENWEATHER_ENDPOINT", ""),
		WeatherAPIKey:   get("OPENWEATHER_API_KEY", ""),
		WeatherTimeout:  dur("WEATHER_TIMEOUT", 10*time.Second),
		LLMEndpoint:     get("LLM_ENDPOINT", ""),
		LLMAPIKey:       get("LLM_API_KEY", ""),
		LLMModel:        get("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:      dur("LLM_TIMEOUT", 25*time.Second),
		AskAIRate:       num("ASK_AI_RATE", 10),
		RedisAddr:       get("REDIS_ADDR", ""),
		KafkaTopic:      get("KAFKA_TOPIC", "marketplace-events"),
	}
	if brokers := get("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	if cfg.JWTSecret == defaultJWTSecret {
		log.Warn().Msg("JWT_SECRET not set, using the development default")
	}
	return cfg
}
