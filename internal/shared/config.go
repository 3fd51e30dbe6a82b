package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	SlotBackend string // pebble|redis|mysql
	SlotKey     string
	PebbleDir   string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	IDXBase string
	IDXKey  string
	IDXRPS  int
	Workers int

	KafkaBrokers      []string
	KafkaCatalogTopic string
	KafkaContactTopic string

	AdminPasswordHash string
	SessionTTL        time.Duration
	CORSOrigins       []string
}

// Load reads the environment, after merging a .env file when one exists.
// Variables already set in the environment win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("read .env failed")
	}
	return FromEnv()
}

func FromEnv() Config {
	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		LogLevel:          env("LOG_LEVEL", "info"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		MetricsAddr:       env("METRICS_ADDR", ":9100"),
		SlotBackend:       strings.ToLower(env("SLOT_BACKEND", "pebble")),
		SlotKey:           env("SLOT_KEY", "properties"),
		PebbleDir:         env("PEBBLE_DIR", "data/catalog"),
		MySQLDSN:          env("MYSQL_DSN", "root:root@tcp(localhost:3306)/realty?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:         env("REDIS_ADDR", "localhost:6379"),
		RedisDB:           atoi("REDIS_DB", 0),
		RedisPass:         env("REDIS_PASSWORD", ""),
		IDXBase:           env("IDX_BASE_URL", ""),
		IDXKey:            env("IDX_API_KEY", ""),
		IDXRPS:            atoi("IDX_RPS", 5),
		Workers:           atoi("INGEST_WORKERS", 8),
		KafkaBrokers:      list("KAFKA_BROKERS"),
		KafkaCatalogTopic: env("KAFKA_CATALOG_TOPIC", "realty.catalog"),
		KafkaContactTopic: env("KAFKA_CONTACT_TOPIC", "realty.contact"),
		AdminPasswordHash: env("ADMIN_PASSWORD_HASH", ""),
		SessionTTL:        time.Duration(atoi("SESSION_TTL_SECONDS", 3600)) * time.Second,
		CORSOrigins:       list("CORS_ORIGINS"),
	}
	switch c.SlotBackend {
	case "pebble", "redis", "mysql":
	default:
		log.Warn().Str("backend", c.SlotBackend).Msg("unknown SLOT_BACKEND, using pebble")
		c.SlotBackend = "pebble"
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH is empty; admin login disabled")
	}
	if c.IDXBase != "" && c.IDXKey == "" {
		log.Warn().Msg("IDX_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func list(k string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(k), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
