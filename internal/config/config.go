package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/retro/internal/config/colors"
	"github.com/thenoetrevino/retro/internal/models"
)

const (
	defaultMaxVotes   = 5
	defaultDebounceMs = 100
	defaultLogLevel   = "info"
)

// Config represents the application configuration
type Config struct {
	DatabasePath string       `yaml:"database_path"`
	SocketPath   string       `yaml:"socket_path"`
	LogLevel     string       `yaml:"log_level"`
	Board        BoardConfig  `yaml:"board"`
	Events       EventsConfig `yaml:"events"`
	ColorScheme  ColorScheme  `yaml:"theme"`
}

// BoardConfig holds defaults for newly created boards
type BoardConfig struct {
	MaxVotesPerUser int    `yaml:"max_votes_per_user"`
	Template        string `yaml:"template"`
}

// EventsConfig controls the connection to the live-update daemon
type EventsConfig struct {
	Disabled   bool `yaml:"disabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// Debounce returns the client batching window
func (e EventsConfig) Debounce() time.Duration {
	return time.Duration(e.DebounceMs) * time.Millisecond
}

// Keys understood by ApplyOverrides. Environment variables use the RETRO_
// prefix with the key upper-cased (RETRO_DB, RETRO_MAX_VOTES, ...).
const (
	KeyDatabase = "db"
	KeySocket   = "socket"
	KeyLogLevel = "log_level"
	KeyMaxVotes = "max_votes"
	KeyTemplate = "template"
	KeyNoEvents = "no_events"
	KeyTheme    = "theme"
)

// Load loads config from the user's config directory.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads config from an explicit file path
func LoadFrom(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the config to configPath, creating parent directories
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Path returns the path to the config file
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "retro", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "retro", "config.yaml"), nil
}

// DataDir returns ~/.retro, where the database, socket and logs live by default
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "retro")
	}
	return filepath.Join(homeDir, ".retro")
}

// ApplyOverrides copies values set in v (flags bound to it, RETRO_*
// environment variables) over the file values.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v == nil {
		return
	}
	if v.IsSet(KeyDatabase) {
		c.DatabasePath = v.GetString(KeyDatabase)
	}
	if v.IsSet(KeySocket) {
		c.SocketPath = v.GetString(KeySocket)
	}
	if v.IsSet(KeyLogLevel) {
		c.LogLevel = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyMaxVotes) {
		c.Board.MaxVotesPerUser = v.GetInt(KeyMaxVotes)
	}
	if v.IsSet(KeyTemplate) {
		c.Board.Template = v.GetString(KeyTemplate)
	}
	if v.IsSet(KeyNoEvents) {
		c.Events.Disabled = v.GetBool(KeyNoEvents)
	}
	if v.IsSet(KeyTheme) {
		c.ColorScheme = *colors.GetPreset(v.GetString(KeyTheme))
	}
	c.applyDefaults()
}

// Validate reports configuration values that can never work
func (c *Config) Validate() error {
	if c.Board.MaxVotesPerUser < 1 || c.Board.MaxVotesPerUser > 100 {
		return fmt.Errorf("board.max_votes_per_user must be between 1 and 100, got %d", c.Board.MaxVotesPerUser)
	}
	if _, err := models.TemplateByKey(c.Board.Template); err != nil {
		return fmt.Errorf("board.template: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps debug/info/warn/error to a slog level
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q (must be: debug, info, warn, error)", s)
	}
	return level, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	dataDir := DataDir()
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(dataDir, "retro.db")
	}
	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(dataDir, "retro.sock")
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Board.MaxVotesPerUser == 0 {
		c.Board.MaxVotesPerUser = defaultMaxVotes
	}
	if c.Board.Template == "" {
		c.Board.Template = models.DefaultTemplateKey
	}
	if c.Events.DebounceMs <= 0 {
		c.Events.DebounceMs = defaultDebounceMs
	}
	c.ColorScheme.ApplyDefaults()
}
