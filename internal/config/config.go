package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML strings like "300ms" decode.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Network NetworkConfig `toml:"network"`
	Session SessionConfig `toml:"session"`
	Chat    ChatConfig    `toml:"chat"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type NetworkConfig struct {
	BindAddress    string   `toml:"bind_address"`
	TickRate       Duration `toml:"tick_rate"`
	InQueueSize    int      `toml:"in_queue_size"`
	OutQueueSize   int      `toml:"out_queue_size"`
	WriteTimeout   Duration `toml:"write_timeout"`
	MaxMessageSize int64    `toml:"max_message_size"`
}

type SessionConfig struct {
	// IdleTimeout removes welcomed sessions that have been silent longer
	// than this. 0 disables the reaper; transport disconnect events are
	// relied upon instead.
	IdleTimeout Duration `toml:"idle_timeout"`
}

// ChatConfig holds tunable chat constants that server admins may want to
// adjust. Previously these were magic numbers in the chat handler.
type ChatConfig struct {
	RateLimit      Duration `toml:"rate_limit"`       // min interval between accepted chat actions
	MaxTextLen     int      `toml:"max_text_len"`     // longest accepted chat message
	NicknameMinLen int      `toml:"nickname_min_len"` // shortest valid nickname
	NicknameMaxLen int      `toml:"nickname_max_len"` // longest valid nickname
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "Neural-Wings",
			StartTime: time.Now().Unix(),
		},
		Network: NetworkConfig{
			BindAddress:    "0.0.0.0:9040",
			TickRate:       Duration(16 * time.Millisecond), // ~60 ticks/s
			InQueueSize:    1024,
			OutQueueSize:   256,
			WriteTimeout:   Duration(10 * time.Second),
			MaxMessageSize: 64 * 1024,
		},
		Session: SessionConfig{
			IdleTimeout: 0, // rely on transport disconnect detection
		},
		Chat: ChatConfig{
			RateLimit:      Duration(300 * time.Millisecond),
			MaxTextLen:     256,
			NicknameMinLen: 3,
			NicknameMaxLen: 16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
