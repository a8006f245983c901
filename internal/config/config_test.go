package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stepwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	path := write(t, `
profile: alice
playback:
  base_interval: 500ms
  default_speed: 2
store:
  backend: redis
  redis:
    addr: redis:6379
    ttl: 24h
log:
  level: debug
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Profile)
	assert.Equal(t, 500*time.Millisecond, cfg.Playback.BaseInterval)
	assert.Equal(t, 2.0, cfg.Playback.DefaultSpeed)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, "stepwise:progress:", cfg.Store.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"speed":   "playback: {default_speed: 0}",
		"backend": "store: {backend: sqlite}",
		"level":   "log: {level: loud}",
		"port":    "server: {port: 70000}",
		"profile": "profile: ../etc",
		"path":    "store: {backend: file, path: ''}",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, content))
			assert.ErrorContains(t, err, "invalid config")
		})
	}

	_, err := config.Load(write(t, "playback: ["))
	assert.ErrorContains(t, err, "failed to parse")
}
