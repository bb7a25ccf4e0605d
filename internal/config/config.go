package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	MempoolBaseURL  string
	RedisURL        string
	LiveCacheTTL    time.Duration
	FeeWindowBlocks int
	FetchTimeout    time.Duration
	CORSOrigins     []string
	RateLimitPerMin int
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		MempoolBaseURL:  getEnv("MEMPOOL_BASE_URL", "https://mempool.space"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		LiveCacheTTL:    getEnvDuration("LIVE_CACHE_TTL_SECONDS", 60*time.Second),
		FeeWindowBlocks: getEnvInt("FEE_WINDOW_BLOCKS", 24),
		FetchTimeout:    getEnvDuration("LIVE_FETCH_TIMEOUT", 3*time.Second),
		CORSOrigins:     getCORSOrigins(),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 120),
	}
}

func getCORSOrigins() []string {
	origins := []string{"http://localhost:5173"}
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		origins = append(origins, o)
	}
	return origins
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Second
}
