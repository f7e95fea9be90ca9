package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Events   EventsConfig   `yaml:"events"`
	Dispatch DispatchConfig `yaml:"dispatch"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AuthToken      string   `yaml:"auth_token"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type EventsConfig struct {
	HistorySize      int           `yaml:"history_size"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
}

type DispatchConfig struct {
	Timeout time.Duration     `yaml:"timeout"`
	Actions map[string]string `yaml:"actions"` // command per event name, e.g. lock: "..."
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8091,
		},
		Log: LogConfig{
			Level: "info",
		},
		Events: EventsConfig{
			HistorySize:      256,
			SnapshotInterval: 30 * time.Second,
		},
		Dispatch: DispatchConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads the YAML config at path on top of the built-in defaults.
// An empty path yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Action returns the dispatch command configured for the named event.
func (c *Config) Action(event string) (string, bool) {
	cmd, ok := c.Dispatch.Actions[event]
	if !ok || cmd == "" {
		return "", false
	}
	return cmd, true
}
