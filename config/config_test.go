package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "laneway", SSLMode: "disable",
	}
	require.Equal(t, "postgres://u:p@db:5432/laneway?sslmode=disable", c.DSN())

	c.URL = "postgres://somewhere/else"
	require.Equal(t, "postgres://somewhere/else", c.DSN())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 14, cfg.Retention.Days)
	require.Equal(t, 24, cfg.Retention.IntervalHours)
	require.False(t, cfg.Retention.DryRun)
	require.Equal(t, "laneway-recordings", cfg.Storage.Bucket)
	require.Equal(t, 3600, cfg.Storage.UploadExpireSeconds)
	require.Equal(t, int32(1000), cfg.Storage.ListMaxKeys)
}

func TestRetentionOverrides(t *testing.T) {
	t.Setenv("RETENTION_DAYS", "30")
	t.Setenv("RETENTION_DRY_RUN", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30, cfg.Retention.Days)
	require.True(t, cfg.Retention.DryRun)
}
