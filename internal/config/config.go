package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string

	TaxRate            string
	DefaultPrepMinutes int

	KitchenPrinter string
	ServicePrinter string

	PollInterval     time.Duration
	PollBatchSize    int
	OutboxRetention  time.Duration
	ConsumerName     string

	RateLimitPerMinute           int
	RateLimitBurst               int
	RestaurantRateLimitPerMinute int
	RestaurantRateLimitBurst     int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	consumer := os.Getenv("OUTBOX_CONSUMER")
	if consumer == "" {
		consumer = "realtime"
	}

	return Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DB_DSN"),
		TaxRate:            readString("TAX_RATE", "0.10"),
		DefaultPrepMinutes: readInt("DEFAULT_PREP_MINUTES", 20),
		KitchenPrinter:     os.Getenv("PRINT_KITCHEN"),
		ServicePrinter:     os.Getenv("PRINT_SERVICE"),
		PollInterval:       readDurationSeconds("OUTBOX_POLL_INTERVAL_SECONDS", 2),
		PollBatchSize:      readInt("OUTBOX_BATCH_SIZE", 100),
		OutboxRetention:    readDurationSeconds("OUTBOX_RETENTION_SECONDS", 86400),
		ConsumerName:       consumer,

		RateLimitPerMinute:           readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:               readInt("RATE_LIMIT_BURST", 30),
		RestaurantRateLimitPerMinute: readInt("RESTAURANT_RATE_LIMIT_PER_MIN", 600),
		RestaurantRateLimitBurst:     readInt("RESTAURANT_RATE_LIMIT_BURST", 120),
	}
}

func readString(key, fallback string) string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	return raw
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
