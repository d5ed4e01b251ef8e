package config

import (
	"os"
	"strconv"
	"time"

	commoncfg "github.com/astro-cL99/pediatria-sub001/internal/common/config"
)

// Config pediatria-handover service configuration
type Config struct {
	HTTP struct {
		Addr           string
		RateLimitRPS   int
		RateLimitBurst int
	}
	DBEnabled    bool
	Database     commoncfg.DatabaseConfig
	RedisEnabled bool
	Redis        commoncfg.RedisConfig
	MQTTEnabled  bool
	MQTT         commoncfg.MQTTConfig
	MQTTTopic    string // prefix, bed transitions go to <prefix>/beds
	WebhookURL   string
	// WebhookDeadline bound on one webhook delivery, retries included
	WebhookDeadline time.Duration
	Log             struct {
		Level  string
		Format string
	}
	Import  ImportConfig
	Lock    LockConfig
	Scoring struct {
		RuleSet string
	}
}

// ImportConfig handover spreadsheet import settings
type ImportConfig struct {
	Workers        int           // reconciler worker pool size
	Timeout        time.Duration // deadline for a whole batch
	MaxUploadMB    int
	HeaderScanRows int
	ReportTTL      time.Duration
	ReportStream   string
}

// LockConfig per-patient / per-bed lock backend
type LockConfig struct {
	Backend string // "memory" | "redis"
	TTL     time.Duration
	Prefix  string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.RateLimitRPS = parseInt(getEnv("RATE_LIMIT_RPS", "5"), 5)
	cfg.HTTP.RateLimitBurst = parseInt(getEnv("RATE_LIMIT_BURST", "10"), 10)

	// DB off by default: the service then runs on the in-memory store.
	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "pediatria"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConns = 20
	cfg.Database.LoadFromEnv("DB")

	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.MQTTEnabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "pediatria-handover"
	cfg.MQTT.QoS = 1
	cfg.MQTT.LoadFromEnv("MQTT")
	cfg.MQTTTopic = getEnv("MQTT_TOPIC_PREFIX", "pediatria")

	cfg.WebhookURL = getEnv("WEBHOOK_URL", "")
	cfg.WebhookDeadline = parseDuration(getEnv("WEBHOOK_DEADLINE", "5s"), 5*time.Second)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Import.Workers = parseInt(getEnv("IMPORT_WORKERS", "4"), 4)
	cfg.Import.Timeout = parseDuration(getEnv("IMPORT_TIMEOUT", "60s"), 60*time.Second)
	cfg.Import.MaxUploadMB = parseInt(getEnv("IMPORT_MAX_UPLOAD_MB", "10"), 10)
	cfg.Import.HeaderScanRows = parseInt(getEnv("IMPORT_HEADER_SCAN_ROWS", "20"), 20)
	cfg.Import.ReportTTL = parseDuration(getEnv("IMPORT_REPORT_TTL", "24h"), 24*time.Hour)
	cfg.Import.ReportStream = getEnv("IMPORT_REPORT_STREAM", "handover:imports")

	cfg.Lock.Backend = getEnv("LOCK_BACKEND", "memory")
	cfg.Lock.TTL = parseDuration(getEnv("LOCK_TTL", "30s"), 30*time.Second)
	cfg.Lock.Prefix = getEnv("LOCK_PREFIX", "handover:lock:")

	cfg.Scoring.RuleSet = getEnv("SCORING_RULESET", "sochipe")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
