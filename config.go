package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"order-care-service/database"
	awspkg "order-care-service/pkg/aws"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the service.
type Config struct {
	Port string

	Postgres database.PostgresConfig

	MongoURL    string
	MongoDBName string

	RedisURL string

	KafkaBrokers string
	KafkaTopic   string

	SNSTopicARN string
}

// LoadConfig reads configuration from the environment, optionally overriding
// database credentials from AWS Secrets Manager.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8084"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Name:     os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		},
		MongoURL:     getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName:  getEnv("MONGO_DB", "catalog"),
		RedisURL:     os.Getenv("REDIS_URL"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("ORDER_EVENTS_TOPIC", "order.events"),
		SNSTopicARN:  os.Getenv("ORDER_EVENTS_SNS_ARN"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			if dbjson, err := sm.GetSecret(context.Background(), "order-care/DB_CREDENTIALS"); err == nil && dbjson != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(dbjson), &m); err == nil {
					if v := m["POSTGRES_USER"]; v != "" {
						cfg.Postgres.User = v
					}
					if v := m["POSTGRES_PASSWORD"]; v != "" {
						cfg.Postgres.Password = v
					}
					if v := m["POSTGRES_DB"]; v != "" {
						cfg.Postgres.Name = v
					}
					if v := m["POSTGRES_HOST"]; v != "" {
						cfg.Postgres.Host = v
					}
					if v := m["POSTGRES_PORT"]; v != "" {
						cfg.Postgres.Port = v
					}
				}
			}
		}
	}

	if cfg.Postgres.User == "" || cfg.Postgres.Password == "" || cfg.Postgres.Name == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if os.Getenv("JWT_SECRET") == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
