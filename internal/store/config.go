package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backend selects the store implementation.
type Backend string

// Supported store backends.
const (
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// PostgresConfigFromEnv creates a PostgresConfig from environment variables.
func PostgresConfigFromEnv() PostgresConfig {
	port, _ := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	maxOpen, _ := strconv.Atoi(getEnvOrDefault("DB_MAX_OPEN_CONNS", "10"))
	lifetime, _ := time.ParseDuration(getEnvOrDefault("DB_CONN_MAX_LIFETIME", "5m"))

	return PostgresConfig{
		Host:            getEnvOrDefault("DB_HOST", "localhost"),
		Port:            port,
		User:            getEnvOrDefault("DB_USER", "stridelab"),
		Password:        getEnvOrDefault("DB_PASSWORD", "localdev"),
		Database:        getEnvOrDefault("DB_NAME", "stridelab"),
		SSLMode:         getEnvOrDefault("DB_SSL_MODE", "disable"),
		MaxOpenConns:    maxOpen,
		ConnMaxLifetime: lifetime,
	}
}

// RedisConfigFromEnv creates a RedisConfig from environment variables.
func RedisConfigFromEnv() RedisConfig {
	db, _ := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))

	return RedisConfig{
		Addr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        db,
		KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "stridelab:"),
	}
}

// Connection retry defaults. The API and the batch sync job often start
// alongside their datastore, so the first dial may race the backend.
const (
	connectInitialInterval = 500 * time.Millisecond
	connectMaxInterval     = 5 * time.Second
	connectMaxRetries      = 5
)

// FromEnv creates the store selected by the STORE_BACKEND environment
// variable (memory, redis or postgres; default memory). Remote backends
// are dialed with exponential backoff.
func FromEnv(ctx context.Context) (Store, error) {
	backend := Backend(getEnvOrDefault("STORE_BACKEND", string(BackendMemory)))

	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		return connectWithRetry(ctx, func(ctx context.Context) (Store, error) {
			return NewRedis(ctx, RedisConfigFromEnv())
		})
	case BackendPostgres:
		return connectWithRetry(ctx, func(ctx context.Context) (Store, error) {
			return NewPostgres(ctx, PostgresConfigFromEnv())
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func connectWithRetry(ctx context.Context, dial func(context.Context) (Store, error)) (Store, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = connectInitialInterval
	bo.MaxInterval = connectMaxInterval
	bo.MaxElapsedTime = 0

	return backoff.RetryWithData(func() (Store, error) {
		return dial(ctx)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, connectMaxRetries), ctx))
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
