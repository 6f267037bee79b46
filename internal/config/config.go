package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon configuration. Values come from an optional YAML
// file; PITHOS_* environment variables override whatever the file set.
type Config struct {
	// Bus controls how the daemon presents itself on the session bus.
	Bus BusConfig `yaml:"bus"`

	// Remote configures the local web remote.
	Remote RemoteConfig `yaml:"remote"`

	// History configures the listening-history store.
	History HistoryConfig `yaml:"history"`

	// IconTheme names the icon theme used for fallback cover art. Empty
	// means hicolor only.
	IconTheme string `yaml:"icon_theme"`
}

type BusConfig struct {
	Name         string `yaml:"name"`
	Identity     string `yaml:"identity"`
	DesktopEntry string `yaml:"desktop_entry"`
}

type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`

	// TokenSecret signs remote bearer tokens. Required when the remote is
	// enabled.
	TokenSecret string `yaml:"token_secret"`

	// PairingCode is what a client presents to obtain a token.
	PairingCode string `yaml:"pairing_code"`

	TokenExpirySec int `yaml:"token_expiry_seconds"`
}

type HistoryConfig struct {
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"`

	// PruneSchedule is a cron expression for the retention sweep.
	PruneSchedule string `yaml:"prune_schedule"`
}

// Load reads configuration from path (ignored when empty or missing), then
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Remote.Enabled {
		if len(strings.TrimSpace(cfg.Remote.TokenSecret)) < 32 {
			return Config{}, fmt.Errorf("remote.token_secret must be at least 32 characters")
		}
		if strings.TrimSpace(cfg.Remote.PairingCode) == "" {
			return Config{}, fmt.Errorf("remote.pairing_code is required when the remote is enabled")
		}
	}
	if cfg.History.RetentionDays < 1 {
		return Config{}, fmt.Errorf("history.retention_days must be positive")
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		Bus: BusConfig{
			Name:         "org.mpris.MediaPlayer2.pithos",
			Identity:     "Pithos",
			DesktopEntry: "pithos",
		},
		Remote: RemoteConfig{
			Enabled:        false,
			Host:           "127.0.0.1",
			Port:           "9090",
			TokenExpirySec: 86400,
		},
		History: HistoryConfig{
			DBPath:        "./data/pithos.db",
			RetentionDays: 90,
			PruneSchedule: "0 4 * * *",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Bus.Name = envString("PITHOS_BUS_NAME", cfg.Bus.Name)
	cfg.Bus.Identity = envString("PITHOS_IDENTITY", cfg.Bus.Identity)
	cfg.Bus.DesktopEntry = envString("PITHOS_DESKTOP_ENTRY", cfg.Bus.DesktopEntry)
	cfg.IconTheme = envString("PITHOS_ICON_THEME", cfg.IconTheme)

	cfg.Remote.Enabled = envBool("PITHOS_REMOTE_ENABLED", cfg.Remote.Enabled)
	cfg.Remote.Host = envString("PITHOS_REMOTE_HOST", cfg.Remote.Host)
	cfg.Remote.Port = envString("PITHOS_REMOTE_PORT", cfg.Remote.Port)
	cfg.Remote.TokenSecret = envString("PITHOS_REMOTE_TOKEN_SECRET", cfg.Remote.TokenSecret)
	cfg.Remote.PairingCode = envString("PITHOS_REMOTE_PAIRING_CODE", cfg.Remote.PairingCode)
	cfg.Remote.TokenExpirySec = envInt("PITHOS_REMOTE_TOKEN_EXPIRY", cfg.Remote.TokenExpirySec)

	cfg.History.DBPath = envString("PITHOS_HISTORY_DB_PATH", cfg.History.DBPath)
	cfg.History.RetentionDays = envInt("PITHOS_HISTORY_RETENTION_DAYS", cfg.History.RetentionDays)
	cfg.History.PruneSchedule = envString("PITHOS_HISTORY_PRUNE_SCHEDULE", cfg.History.PruneSchedule)
}

func envString(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.EqualFold(val, "true")
}
