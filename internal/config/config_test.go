package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 21, cfg.ReportHour)
	assert.Contains(t, cfg.DatabaseDSN, "host=localhost")
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9090"
admin_email: boss@example.test
otp_ttl: 5m
report_hour: 20
smtp:
  host: mail.example.test
  port: 587
  from: kiosk@example.test
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "boss@example.test", cfg.AdminEmail)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 20, cfg.ReportHour)
	assert.Equal(t, "mail.example.test:587", cfg.SMTP.Addr())
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":9090\"\n"), 0o600))

	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("OTP_TTL", "3m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 3*time.Minute, cfg.OTPTTL)
}

func TestLoadRejectsBadReportHour(t *testing.T) {
	t.Setenv("REPORT_HOUR", "24")

	_, err := Load("")
	require.Error(t, err)
}

func TestNormalizeConnectionString(t *testing.T) {
	dsn := normalizeConnectionString("Host=db;Port=5433;Database=kiosk;Username=app;Password=secret")

	assert.Contains(t, dsn, "host=db")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=kiosk")
	assert.Contains(t, dsn, "user=app")
	assert.Contains(t, dsn, "password=secret")

	// libpq keyword DSNs pass through untouched.
	plain := "host=localhost port=5432 dbname=kiosk"
	assert.Equal(t, plain, normalizeConnectionString(plain))
}
