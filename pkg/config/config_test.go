package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("NOTIFY_BROKER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12*60, cfg.JWT.Expiration)
	assert.Equal(t, BrokerNone, cfg.Notify.Broker)
	assert.Equal(t, "notifications", cfg.Notify.KafkaTopic)
}

func TestLoad_PuertoYBrokerDesdeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "8088")
	t.Setenv("NOTIFY_BROKER", "Kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8088", cfg.HTTP.Addr())
	assert.Equal(t, BrokerKafka, cfg.Notify.Broker)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notify.KafkaBrokers)
}

func TestLoad_BrokerDesconocido(t *testing.T) {
	t.Setenv("NOTIFY_BROKER", "rabbitmq")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "gm", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/gm?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
