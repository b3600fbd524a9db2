package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/poultrypms/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "poultrypms", cfg.MongoDB.DBName)
	assert.Equal(t, 50.0, cfg.Alerts.FeedThresholdKg)
	assert.Equal(t, "0 20 * * *", cfg.Snapshot.CronSchedule)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load("")
	assert.Error(t, err)
}

func TestLoad_ThresholdOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("FEED_ALERT_THRESHOLD_KG", "120.5")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 120.5, cfg.Alerts.FeedThresholdKg)
}

func TestLoad_ThresholdMustBeNumeric(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("FEED_ALERT_THRESHOLD_KG", "lots")

	_, err := config.Load("")
	assert.Error(t, err)
}

func TestLoad_ExportFieldsMustPair(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GOOGLE_SHEET_EXPORT_ID", "sheet-id")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")

	_, err := config.Load("")
	assert.Error(t, err)
}
