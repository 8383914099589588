package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Store      StoreConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Classifier ClassifierConfig
	Notifier   NotifierConfig
	RateLimit  RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig selects and tunes the ticket store backend. The remote
// backend is used only when both URL and AccessKey are set and reachable
// at startup; otherwise the in-memory seeded store takes over.
type StoreConfig struct {
	URL            string
	AccessKey      string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the intake rate limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines agent authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	AgentUsername         string
	AgentPasswordHash     string
}

// ClassifierConfig points at the LLM classification endpoint.
type ClassifierConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

// NotifierConfig points at the chat front-end's notification endpoint.
type NotifierConfig struct {
	URL            string
	TimeoutSeconds int
}

// RateLimitConfig bounds intake submissions per user.
type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-intake"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			URL:            os.Getenv("STORE_URL"),
			AccessKey:      os.Getenv("STORE_KEY"),
			MaxConns:       int32(getEnvAsInt("STORE_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("STORE_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("STORE_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("STORE_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("STORE_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			AgentUsername:         getEnv("AGENT_USERNAME", "agent"),
			AgentPasswordHash:     os.Getenv("AGENT_PASSWORD_HASH"),
		},
		Classifier: ClassifierConfig{
			APIKey:         os.Getenv("GROQ_API_KEY"),
			Model:          getEnv("GROQ_MODEL", "llama3-70b-8192"),
			BaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			TimeoutSeconds: getEnvAsInt("GROQ_TIMEOUT_SECONDS", 30),
		},
		Notifier: NotifierConfig{
			URL:            getEnv("NOTIFY_URL", ""),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 5),
		},
		RateLimit: RateLimitConfig{
			Requests:      getEnvAsInt("INTAKE_RATE_LIMIT_REQUESTS", 10),
			WindowSeconds: getEnvAsInt("INTAKE_RATE_LIMIT_WINDOW_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RemoteConfigured reports whether both remote store parameters are present.
func (s StoreConfig) RemoteConfigured() bool {
	return s.URL != "" && s.AccessKey != ""
}

// Timeout returns the classifier call timeout.
func (c ClassifierConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the notifier call timeout.
func (n NotifierConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// Window returns the rate limit window duration.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
