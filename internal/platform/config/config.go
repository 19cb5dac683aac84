package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName       string
	HTTPPort          string
	PostgresDSN       string
	RedisAddr         string
	RedisPassword     string
	EventStreamPrefix string
	JWTSecret         string

	WorkerPollInterval time.Duration
	IdempotencyTTL     time.Duration

	EnableProposalStatusSweep bool
	EnableRedisEventBus       bool
}

// Load reads the process environment. A .env file in the working directory,
// or the file named by ENV_FILE, is loaded first without overriding
// variables that are already set.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "house-governance"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	prefix := strings.TrimSpace(os.Getenv("EVENT_STREAM_PREFIX"))
	if prefix == "" {
		prefix = "governance"
	}

	pollInterval, err := envDuration("WORKER_POLL_INTERVAL", 2*time.Second)
	if err != nil {
		return Config{}, err
	}
	idempotencyTTL, err := envDuration("IDEMPOTENCY_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:       service,
		HTTPPort:          port,
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		EventStreamPrefix: prefix,
		JWTSecret:         os.Getenv("JWT_SECRET"),

		WorkerPollInterval: pollInterval,
		IdempotencyTTL:     idempotencyTTL,

		EnableProposalStatusSweep: envBool("ENABLE_PROPOSAL_STATUS_SWEEP", false),
		EnableRedisEventBus:       envBool("ENABLE_REDIS_EVENT_BUS", false),
	}, nil
}

func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

// envDuration accepts Go duration strings or a bare number of seconds.
func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds <= 0 {
			return fallback, nil
		}
		return time.Duration(seconds) * time.Second, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.New(name + ": " + err.Error())
	}
	if value <= 0 {
		return fallback, nil
	}
	return value, nil
}
