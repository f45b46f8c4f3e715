package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "9090"
  jwt_signing_key: secret
  session_ttl: 2h
upstream:
  base_url: http://backend:8000/api
  timeout: 5s
newsfeed:
  sources:
    - url: https://example.org/rss
      city: Ангарск
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, 2*time.Hour, conf.API.SessionTTL)
	assert.Equal(t, "http://backend:8000/api", conf.Upstream.BaseURL)
	assert.Equal(t, 5*time.Second, conf.Upstream.Timeout)
	assert.Equal(t, "Ангарск", conf.Recommend.DefaultCity)
	require.Len(t, conf.NewsFeed.Sources, 1)
	assert.Equal(t, "https://example.org/rss", conf.NewsFeed.Sources[0].URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "api:\n  jwt_signing_key: secret\n")
	t.Setenv("API_BASE_URL", "http://override:8000/api")
	t.Setenv("API_PORT", "7070")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override:8000/api", conf.Upstream.BaseURL)
	assert.Equal(t, "7070", conf.API.Port)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("API_JWT_SIGNING_KEY", "from-env")

	conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", conf.API.JWTSigningKey)
	assert.Equal(t, "http://localhost:8000/api", conf.Upstream.BaseURL)
	assert.Equal(t, time.Duration(0), conf.Upstream.Timeout)
}

func TestLoad_RequiresSigningKey(t *testing.T) {
	path := writeConfig(t, "api:\n  port: \"8080\"\n")

	_, err := Load(path)
	assert.Error(t, err)
}
