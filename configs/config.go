package config

import (
	"os"
	"time"
)

type Config struct {
	PostgresURI    string
	RedisURI       string
	SecretKey      string
	ServerAddr     string
	GraphAPIBase   string
	SweepSpec      string
	PublishTimeout time.Duration
	ClaimTTL       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:    getEnv("POSTGRES_URI", ""),
		RedisURI:       getEnv("REDIS_URI", ""),
		SecretKey:      getEnv("SECRET_KEY", ""),
		ServerAddr:     getEnv("SERVER_ADDR", ":3000"),
		GraphAPIBase:   getEnv("GRAPH_API_BASE", "https://graph.instagram.com/v21.0"),
		SweepSpec:      getEnv("SWEEP_SPEC", "@every 0h1m0s"),
		PublishTimeout: getEnvDuration("PUBLISH_TIMEOUT", 30*time.Second),
		ClaimTTL:       getEnvDuration("CLAIM_TTL", 10*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
