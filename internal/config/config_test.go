package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[network]
bind_address = "127.0.0.1:9999"
tick_rate = "50ms"

[chat]
rate_limit = "1s"
max_text_len = 64
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9999", cfg.Network.BindAddress)
	require.Equal(t, 50*time.Millisecond, cfg.Network.TickRate.Std())
	require.Equal(t, time.Second, cfg.Chat.RateLimit.Std())
	require.Equal(t, 64, cfg.Chat.MaxTextLen)

	// Untouched keys keep their defaults.
	require.Equal(t, 3, cfg.Chat.NicknameMinLen)
	require.Equal(t, 16, cfg.Chat.NicknameMaxLen)
	require.Equal(t, "Neural-Wings", cfg.Server.Name)
	require.NotZero(t, cfg.Server.StartTime)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[chat]
rate_limit = "soon"
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDefaultsAreSane(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, 16*time.Millisecond, cfg.Network.TickRate.Std())
	require.Equal(t, 300*time.Millisecond, cfg.Chat.RateLimit.Std())
	require.Equal(t, time.Duration(0), cfg.Session.IdleTimeout.Std())
	require.LessOrEqual(t, cfg.Chat.NicknameMinLen, cfg.Chat.NicknameMaxLen)
}
