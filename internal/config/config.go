package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	// PostgresDSN vazio desativa o histórico de pesquisas
	PostgresDSN string
	// RedisAddr vazio desativa a cache de respostas
	RedisAddr string

	// SourcesFile aponta para um JSON com a lista de fontes; vazio usa o catálogo embutido
	SourcesFile string
	// WebRoot com a build do front-end; vazio desativa o serving estático
	WebRoot string

	CacheTTL             time.Duration
	MaxConcurrentFetches int
	// SearchDeadline é o teto de tempo de uma pesquisa completa
	SearchDeadline time.Duration
}

func Load() *Config {
	cfg := &Config{
		AppPort:              getEnv("APP_PORT", "9000"),
		PostgresDSN:          getEnv("POSTGRES_DSN", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		SourcesFile:          getEnv("SOURCES_FILE", ""),
		WebRoot:              getEnv("WEB_ROOT", ""),
		CacheTTL:             time.Duration(getEnvInt("CACHE_TTL_MINUTES", 10)) * time.Minute,
		MaxConcurrentFetches: getEnvInt("MAX_CONCURRENT_FETCHES", 50),
		SearchDeadline:       time.Duration(getEnvInt("SEARCH_DEADLINE_SECONDS", 30)) * time.Second,
	}

	log.Printf("config loaded: port=%s cacheTTL=%s deadline=%s", cfg.AppPort, cfg.CacheTTL, cfg.SearchDeadline)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warn: invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}
