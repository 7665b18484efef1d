package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort           string
	Env                string
	DBPath             string
	RedisAddr          string
	RedisPassword      string
	ReceiptTTL         time.Duration
	KafkaBrokers       []string
	ReceiptTopic       string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	SimSessions  int
	SimQuantity  int32
	SimProductID int64
}

// Load reads the configuration from the environment. Redis and Kafka stay
// disabled while REDIS_ADDR and KAFKA_BROKERS are empty.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Env:                getEnv("APP_ENV", "production"),
		DBPath:             getEnv("DB_PATH", "shop.db"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		ReceiptTopic:       getEnv("RECEIPT_TOPIC", "checkout-completed"),
		MaxRequestBodySize: 1 << 20, // 1MB
	}

	var err error
	if cfg.ReceiptTTL, err = getDuration("RECEIPT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	sessions, err := getInt("SIM_SESSIONS", 2, 32)
	if err != nil {
		return nil, err
	}
	quantity, err := getInt("SIM_QUANTITY", 3, 32)
	if err != nil {
		return nil, err
	}
	productID, err := getInt("SIM_PRODUCT_ID", 2, 64)
	if err != nil {
		return nil, err
	}
	cfg.SimSessions = int(sessions)
	cfg.SimQuantity = int32(quantity)
	cfg.SimProductID = productID

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int64, bits int) (int64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(raw, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
