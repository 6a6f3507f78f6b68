package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ryanuo/aug-calc/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	base := `
service:
  type: WORKER
  port: "9000"
databases:
  sql:
    driver: postgres
    host: db
externalClients:
  gold:
    baseUrl: http://quotes.local
    timeout: 3s
`

	t.Run("reads the base file and fills defaults", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{"appsettings.yaml": base})

		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)

		assert.Equal(t, config.WORKER, cfg.Service.Type)
		assert.Equal(t, "9000", cfg.Service.Port)
		assert.Equal(t, config.DriverPostgres, cfg.Databases.SQL.Driver)
		assert.Equal(t, "http://quotes.local", cfg.ExternalClients.Gold.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.ExternalClients.Gold.Timeout)
		assert.Equal(t, 30*time.Second, cfg.ExternalClients.Gold.CacheTTL)
		assert.Equal(t, "@every 30s", cfg.ExternalClients.Gold.RefreshCron)
		assert.Equal(t, uint64(2), cfg.ExternalClients.Gold.MaxRetries)
		assert.Equal(t, time.Second, cfg.Notifications.DefaultDuration)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.Service.AllowedOrigins)
	})

	t.Run("environment file overlays the base", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{
			"appsettings.yaml":         base,
			"appsettings.TESTING.yaml": "ledger:\n  defaultFeeRate: 0.005\ndatabases:\n  sql:\n    driver: sqlite\n",
		})

		cfg, err := config.LoadConfig(dir, "TESTING")
		require.NoError(t, err)

		assert.Equal(t, config.DriverSQLite, cfg.Databases.SQL.Driver)
		assert.Equal(t, "db", cfg.Databases.SQL.Host)
		assert.Equal(t, 0.005, cfg.Ledger.DefaultFeeRate)
	})

	t.Run("environment variables win", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{"appsettings.yaml": base})
		t.Setenv("AUGCALC_SERVICE_PORT", "7070")
		t.Setenv("AUGCALC_AUTH_JWTSECRET", "s3cret")

		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)

		assert.Equal(t, "7070", cfg.Service.Port)
		assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	})

	t.Run("fee rate out of range is rejected at load", func(t *testing.T) {
		for _, rate := range []string{"1.5", "-0.1"} {
			dir := writeSettings(t, map[string]string{"appsettings.yaml": base + "ledger:\n  defaultFeeRate: " + rate + "\n"})
			_, err := config.LoadConfig(dir, "")
			assert.ErrorContains(t, err, "defaultFeeRate", rate)
		}

		dir := writeSettings(t, map[string]string{"appsettings.yaml": base + "ledger:\n  defaultFeeRate: 1\n"})
		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)
		assert.Equal(t, 1.0, cfg.Ledger.DefaultFeeRate)
	})

	t.Run("missing files are errors", func(t *testing.T) {
		_, err := config.LoadConfig(t.TempDir(), "")
		assert.Error(t, err)

		dir := writeSettings(t, map[string]string{"appsettings.yaml": base})
		_, err = config.LoadConfig(dir, "PRODUCTION")
		assert.Error(t, err)
	})
}
