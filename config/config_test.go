package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, int64(1<<20), cfg.Server.RequestBodyLimit)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9999")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("LOGGER_DISABLE_CALLER", "true")

	cfg := LoadEnv()

	assert.Equal(t, ":9999", cfg.Server.HTTPPort)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.True(t, cfg.Logger.DisableCaller)
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "orders", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=orders sslmode=disable", c.DSN())
}
