package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "spotlight", cfg.ServiceName)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, int64(1000), cfg.MaxPurchaseQuantity)
	assert.Equal(t, 2*time.Second, cfg.WorkerPollInterval)
	assert.Equal(t, 168*time.Hour, cfg.NotificationDedupTTL)
	assert.True(t, cfg.EnableNotificationConsumer)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFileOverrides(t *testing.T) {
	t.Run("Happy path - dotenv fills unset variables only", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("LOG_LEVEL=debug\nHTTP_PORT=9090\n"), 0o600))
		t.Setenv("HTTP_PORT", "7070")
		t.Setenv("LOG_LEVEL", "")
		require.NoError(t, os.Unsetenv("LOG_LEVEL"))

		cfg, err := LoadFile(envFile)
		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.HTTPPort)
		assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	})

	t.Run("Unhappy path - postgres without dsn", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "postgres")
		t.Setenv("POSTGRES_DSN", "")
		_, err := LoadFile("")
		assert.Error(t, err)
	})

	t.Run("Unhappy path - unknown timezone", func(t *testing.T) {
		t.Setenv("DEFAULT_TIMEZONE", "Mars/Olympus")
		_, err := LoadFile("")
		assert.Error(t, err)
	})

	t.Run("Unhappy path - malformed duration", func(t *testing.T) {
		t.Setenv("WORKER_POLL_INTERVAL", "soon")
		_, err := LoadFile("")
		assert.Error(t, err)
	})
}

func TestParseSeed(t *testing.T) {
	t.Run("Happy path - competitions and catalogs", func(t *testing.T) {
		seed, err := ParseSeed([]byte(`
competitions:
  - id: spring-2026
    name: Spring Showcase
    timezone: Africa/Lagos
    phases:
      - name: Voting
        startsAt: 2026-05-01T00:00:00Z
        endsAt: 2026-06-01T00:00:00Z
    promotionalDates: ["2026-05-04"]
catalogs:
  - competitionId: spring-2026
    tasks:
      - key: add_photo
        label: Add a photo
        points: 5
        kind: profile
`))
		require.NoError(t, err)
		require.Len(t, seed.Competitions, 1)
		assert.Equal(t, "Africa/Lagos", seed.Competitions[0].Timezone)
		assert.Equal(t, []string{"2026-05-04"}, seed.Competitions[0].PromotionalDates)
		assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), seed.Competitions[0].Phases[0].EndsAt)
		require.Len(t, seed.Catalogs, 1)
		assert.Equal(t, int64(5), seed.Catalogs[0].Tasks[0].Points)
	})

	t.Run("Unhappy path - unknown key", func(t *testing.T) {
		_, err := ParseSeed([]byte("competitions:\n  - id: x\n    multiplier: 3\n"))
		assert.Error(t, err)
	})

	t.Run("Unhappy path - competition without id", func(t *testing.T) {
		_, err := ParseSeed([]byte("competitions:\n  - name: Nameless\n"))
		assert.Error(t, err)
	})
}

func TestLoadSeedExample(t *testing.T) {
	seed, err := LoadSeed(filepath.Join("..", "..", "..", "deploy", "seed.example.yaml"))
	require.NoError(t, err)
	require.Len(t, seed.Competitions, 1)
	assert.Len(t, seed.Competitions[0].Phases, 2)
	require.Len(t, seed.Catalogs, 1)
	assert.Len(t, seed.Catalogs[0].Tasks, 5)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
