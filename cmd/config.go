package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the process configuration. An empty DBHost, RedisAddr or
// KafkaHost selects the in-memory adapter for that concern.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaHost              string
	KafkaOrderChangedTopic string

	ListCacheTTL time.Duration

	LogLevel  string
	LogFormat string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "3000")
	v.SetDefault("DB_HOST", "")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "orders")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_HOST", "")
	v.SetDefault("KAFKA_ORDER_CHANGED_TOPIC", "orders.changed")
	v.SetDefault("LIST_CACHE_TTL", 30*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// NewConfig reads every key from v.
func NewConfig(v *viper.Viper) Config {
	return Config{
		HTTPPort:               v.GetString("HTTP_PORT"),
		DBHost:                 v.GetString("DB_HOST"),
		DBPort:                 v.GetString("DB_PORT"),
		DBUser:                 v.GetString("DB_USER"),
		DBPassword:             v.GetString("DB_PASSWORD"),
		DBName:                 v.GetString("DB_NAME"),
		DBSslMode:              v.GetString("DB_SSLMODE"),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		KafkaHost:              v.GetString("KAFKA_HOST"),
		KafkaOrderChangedTopic: v.GetString("KAFKA_ORDER_CHANGED_TOPIC"),
		ListCacheTTL:           v.GetDuration("LIST_CACHE_TTL"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFormat:              v.GetString("LOG_FORMAT"),
	}
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KafkaHost on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
