package config

import (
	"os"
	"time"
)

// Config holds all runtime settings for the storefront backend.
type Config struct {
	Port string
	Env  string

	MongoURI string
	MongoDB  string

	RedisURL string
	CartTTL  time.Duration

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	KafkaBrokers     string
	FulfillmentTopic string
	OrderEventsTopic string
	ConsumerGroup    string

	SNSTopicARN string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "development"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "ecocycle"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:  time.Hour * 24 * 7, // default 7 days

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getEnv("POSTGRES_DB", "ecocycle_orders"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),

		KafkaBrokers:     getEnv("KAFKA_BROKERS", "localhost:9092"),
		FulfillmentTopic: getEnv("FULFILLMENT_TOPIC", "order.fulfillment"),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order.created"),
		ConsumerGroup:    getEnv("CONSUMER_GROUP", "ecocycle-backend"),

		SNSTopicARN: os.Getenv("SNS_ORDER_TOPIC_ARN"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
