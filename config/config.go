package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kova98/harvest/enums"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type AppConfig struct {
	AppEnv   string // EnvDevelopment or EnvProduction
	LogLevel slog.Level
	Port     string

	ProxyURLs            []string
	ProxyMinInterval     time.Duration
	FetchMaxRetries      int
	FetchTimeout         time.Duration
	FetchFollowRedirects bool

	MonitorEnabled    bool
	MonitorQueries    []string
	MonitorInterval   time.Duration
	MonitorSinceHours float64
	MonitorLimit      int
	MonitorMatchMode  enums.MatchMode
	MonitorMaxSeen    int
}

var Config AppConfig

func LoadConfig() {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.Port = loadOptional("PORT", "8080")

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.ProxyURLs = loadList("PROXY_URLS")
	cfg.ProxyMinInterval = time.Duration(loadInt("PROXY_MIN_INTERVAL_MS", 0)) * time.Millisecond
	cfg.FetchMaxRetries = loadInt("FETCH_MAX_RETRIES", 2)
	cfg.FetchTimeout = time.Duration(loadInt("FETCH_TIMEOUT_MS", 15000)) * time.Millisecond
	cfg.FetchFollowRedirects = loadBool("FETCH_FOLLOW_REDIRECTS", true)

	cfg.MonitorEnabled = loadBool("MONITOR_ENABLED", false)
	cfg.MonitorQueries = loadList("MONITOR_QUERIES")
	cfg.MonitorInterval = time.Duration(loadInt("MONITOR_INTERVAL_SECONDS", 300)) * time.Second
	cfg.MonitorSinceHours = loadFloat("MONITOR_SINCE_HOURS", 1)
	cfg.MonitorLimit = loadInt("MONITOR_LIMIT", 20)
	cfg.MonitorMaxSeen = loadInt("MONITOR_MAX_SEEN", 10000)

	cfg.MonitorMatchMode = enums.ParseMatchMode(loadOptional("MONITOR_MATCH_MODE", string(enums.MatchModeBroad)))
	if cfg.MonitorMatchMode == enums.MatchModeInvalid {
		slog.Error("Invalid MONITOR_MATCH_MODE, using broad")
		cfg.MonitorMatchMode = enums.MatchModeBroad
	}

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func loadInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || i < 0 {
		slog.Error("Invalid integer env var, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return i
}

func loadFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f <= 0 {
		slog.Error("Invalid number env var, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return f
}

func loadBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		slog.Error("Invalid boolean env var, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return b
}

// loadList reads a comma separated value, dropping blank entries.
func loadList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
