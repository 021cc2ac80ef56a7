package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr    string
	Refdata RefdataConfig
	DB      DBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig

	// PendingMaterialTimeout bounds how long queued materials wait for
	// case acceptance.
	PendingMaterialTimeout time.Duration
	SnapshotTTL            time.Duration
}

// RefdataConfig points at the reference data service.
type RefdataConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis
// (no refdata cache, no snapshots).
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds event publishing settings. Empty brokers disable the
// relay.
type KafkaConfig struct {
	Brokers string
	Topic   string
	Acks    string
	Retries int
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr: envOr("CASEFLOW_ADDR", ":8080"),
		Refdata: RefdataConfig{
			BaseURL:  envOr("REFDATA_BASE_URL", "http://localhost:8081"),
			CacheTTL: envDuration("REFDATA_CACHE_TTL", 5*time.Minute),
		},
		DB: DBConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   envOr("KAFKA_TOPIC", "caseflow.case.events"),
			Acks:    envOr("KAFKA_ACKS", "all"),
			Retries: envInt("KAFKA_RETRIES", 5),
		},
		PendingMaterialTimeout: envDuration("PENDING_MATERIAL_TIMEOUT", 30*24*time.Hour),
		SnapshotTTL:            envDuration("SNAPSHOT_TTL", 24*time.Hour),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
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
