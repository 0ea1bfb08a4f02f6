package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  name: stock-board
logger:
  level: debug
  encoding: console
database:
  driver: mysql
  host: localhost
  port: 3306
  name: board
redis:
  host: localhost
  port: 6379
  stream_max_len: 500
api:
  port: 8080
board:
  trending_cache_ttl: 30s
  rate_limit_per_second: 20
  rate_limit_burst: 40
  allow_origins:
    - http://localhost:5173
events:
  enabled: true
  notify:
    enabled: true
    chat_id: -100123
    types: [post.created, post.liked]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config-board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "stock-board", cfg.App.Name)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "board", cfg.Database.DBName)
	assert.EqualValues(t, 500, cfg.Redis.StreamMaxLen)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 30*time.Second, cfg.Board.TrendingCacheTTL)
	assert.Equal(t, 20.0, cfg.Board.RateLimitPerSecond)
	assert.Equal(t, 40, cfg.Board.RateLimitBurst)
	assert.Equal(t, 10, cfg.Board.DefaultPageSize)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Board.AllowOrigins)
	assert.True(t, cfg.Events.Enabled)
	assert.True(t, cfg.Events.Notify.Enabled)
	assert.EqualValues(t, -100123, cfg.Events.Notify.ChatID)
	assert.Equal(t, []string{"post.created", "post.liked"}, cfg.Events.Notify.Types)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("BOARD_RATE_LIMIT_BURST", "25")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 25, cfg.Board.RateLimitBurst)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Board.DefaultPageSize)
	assert.Equal(t, 3000, cfg.API.Port)
}
