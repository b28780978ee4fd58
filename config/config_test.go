package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("INVENTORY_REPORT_CACHE_TTL", "30s")
	t.Setenv("REDIS_ENABLED", "false")

	cfg := LoadEnv()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Inventory.ReportCacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 50, cfg.Sales.DefaultListLimit)
	assert.Equal(t, 200, cfg.Sales.MaxListLimit)
	require.NoError(t, cfg.Validate())
}

func TestValidateCollectsErrors(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("KAFKA_TOPIC_PURCHASES", "")
	t.Setenv("INVENTORY_MAX_LIST_LIMIT", "10")
	t.Setenv("SALES_DEFAULT_LIST_LIMIT", "0")

	err := LoadEnv().Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
	assert.ErrorContains(t, err, "consumer group")
	assert.ErrorContains(t, err, "inventory list limits")
	assert.ErrorContains(t, err, "sales list limits")
}
