package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr     string
	MySQLDSN     string
	RedisAddr    string
	KafkaBrokers []string
	OrderTopic   string

	JWTSecret string

	// Payment gateway
	GatewayBaseURL string
	GatewaySecret  string
	WebhookSecret  string
	RedirectURL    string
	Currency       string

	// Debug bypasses webhook signature verification. Never enable in production.
	Debug bool
}

func Load() Config {
	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		MySQLDSN:       getenv("MYSQL_DSN", "root:@tcp(127.0.0.1:3306)/ordora?parseTime=true"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:   splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
		OrderTopic:     getenv("ORDER_TOPIC", "order-topic"),
		JWTSecret:      getenv("JWT_SECRET", "secret"),
		GatewayBaseURL: getenv("FLW_BASE_URL", "https://api.flutterwave.com/v3"),
		GatewaySecret:  getenv("FLW_SECRET_KEY", ""),
		WebhookSecret:  getenv("FLW_WEBHOOK_SECRET", ""),
		RedirectURL:    getenv("FLW_REDIRECT_URL", "http://localhost:8080/payments/callback"),
		Currency:       getenv("FLW_CURRENCY", "NGN"),
		Debug:          getenv("DEBUG", "") == "true",
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
