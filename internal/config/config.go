package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	// Backend selects the cache implementation: "memory", "redis" or
	// "bolt".
	Backend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BoltPath string

	// KeyPrefix namespaces session keys inside a shared backend.
	KeyPrefix string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		Backend: getenv("TICKET_BACKEND", "memory"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		BoltPath: getenv("BOLT_PATH", "tickets.db"),

		KeyPrefix: os.Getenv("TICKET_KEY_PREFIX"),
	}

	return cfg

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
	if err != nil {
		return fallback
	}
	return n
}
