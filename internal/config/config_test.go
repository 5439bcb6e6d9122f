package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "geowatch", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "http://localhost:8000/api/events", cfg.Events.WebhookURL)
	assert.Equal(t, 5*time.Minute, cfg.Events.RefreshInterval)
	assert.Equal(t, time.Minute, cfg.Events.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, "gpt-4-turbo-preview", cfg.AI.ChatModel)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.ExtractModel)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.HTTP.MetricsEnabled)
	assert.True(t, cfg.Headlines.GoogleNews)
	assert.Len(t, cfg.Headlines.Feeds, 4)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEOWATCH_APP_PORT", "9090")
	t.Setenv("GEOWATCH_APP_ENV", "production")
	t.Setenv("GEOWATCH_EVENTS_WEBHOOK_URL", "https://feed.example.com/events")
	t.Setenv("GEOWATCH_EVENTS_REFRESH_INTERVAL", "0s")
	t.Setenv("GEOWATCH_REDIS_ENABLED", "true")
	t.Setenv("GEOWATCH_AI_RATE_LIMIT", "0.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://feed.example.com/events", cfg.Events.WebhookURL)
	assert.Equal(t, time.Duration(0), cfg.Events.RefreshInterval)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 0.5, cfg.AI.RateLimit)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geowatch.toml")
	content := `
[app]
port = "7000"

[events]
webhook_url = "http://events.internal:8000/api/events"
cache_ttl = "30s"

[headlines]
feeds = ["https://example.com/rss"]
google_news = false

[http]
cors_allow_origins = ["http://localhost:3000"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.App.Port)
	assert.Equal(t, "http://events.internal:8000/api/events", cfg.Events.WebhookURL)
	assert.Equal(t, 30*time.Second, cfg.Events.CacheTTL)
	assert.Equal(t, []string{"https://example.com/rss"}, cfg.Headlines.Feeds)
	assert.False(t, cfg.Headlines.GoogleNews)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("relative webhook url", func(t *testing.T) {
		t.Setenv("GEOWATCH_EVENTS_WEBHOOK_URL", "/api/events")
		_, err := Load("")
		assert.ErrorContains(t, err, "events.webhook_url")
	})

	t.Run("wildcard cors in production", func(t *testing.T) {
		t.Setenv("GEOWATCH_APP_ENV", "production")
		t.Setenv("GEOWATCH_HTTP_CORS_ALLOW_ORIGINS", "*")
		_, err := Load("")
		assert.ErrorContains(t, err, "cors_allow_origins")
	})
}

func TestLoad_ZeroCacheTTLDisablesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geowatch.toml")
	content := `
[events]
cache_ttl = "0s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Events.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Events.RefreshInterval)
}

func TestLoad_ZeroCacheTTLFromEnv(t *testing.T) {
	t.Setenv("GEOWATCH_EVENTS_CACHE_TTL", "0s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Events.CacheTTL)
}
