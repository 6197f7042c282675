package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	TelegramBotToken string

	PayTabsProfileID string
	PayTabsServerKey string
	PayTabsBaseURL   string

	RedisAddr string // empty = in-memory cache
	CacheTTL  time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:             getenv("PORT", "8080"),
		DBDSN:            getenv("DB_DSN", "bazaar.db"),
		LogFile:          os.Getenv("LOG_FILE"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		PayTabsProfileID: os.Getenv("PAYTABS_PROFILE_ID"),
		PayTabsServerKey: os.Getenv("PAYTABS_SERVER_KEY"),
		PayTabsBaseURL:   getenv("PAYTABS_BASE_URL", "https://secure.paytabs.sa"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		CacheTTL:         getdur("CACHE_TTL", time.Minute),
	}
	log.Info().
		Str("port", cfg.Port).
		Str("db_dsn", cfg.DBDSN).
		Bool("telegram", cfg.TelegramBotToken != "").
		Bool("paytabs", cfg.PayTabsProfileID != "").
		Str("redis", cfg.RedisAddr).
		Msg("config loaded")
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("bad duration, using default")
		return def
	}
	return d
}
