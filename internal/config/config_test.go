package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("UNIT_TRACKING", "")
	t.Setenv("PAGE_SIZE", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.True(t, cfg.Inventory.UnitTracking)
	assert.Equal(t, 10, cfg.Inventory.PageSize)
	assert.Equal(t, 1, cfg.Inventory.LowStockThreshold)
	assert.NotNil(t, cfg.Inventory.Location)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("UNIT_TRACKING", "false")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("JWT_TTL_HOURS", "1")

	cfg := LoadEnv()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Inventory.UnitTracking)
	assert.Equal(t, 3, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 1, cfg.JWT.TTLHours)
}

func TestLoadLocationFallback(t *testing.T) {
	loc := LoadLocation("Not/AZone")
	assert.Equal(t, "BRT", loc.String())
}
