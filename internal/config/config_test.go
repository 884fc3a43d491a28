package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ".data", cfg.DataDir)
	assert.InDelta(t, 0.23, cfg.TaxRate, 0.0001)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.InvoiceSenderInterval)
	assert.Equal(t, "api", cfg.MailgunAPIUser)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.KafkaBrokers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TAX_RATE", "0.19")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.InDelta(t, 0.19, cfg.TaxRate, 0.0001)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("TAX_RATE", "not-a-number")
	t.Setenv("TOKEN_TTL", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.InDelta(t, 0.23, cfg.TaxRate, 0.0001)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}
