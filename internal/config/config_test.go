package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.Board.MaxVotesPerUser != 5 {
		t.Errorf("MaxVotesPerUser = %d, want 5 (default)", cfg.Board.MaxVotesPerUser)
	}
	if cfg.Board.Template != "went-well-didnt" {
		t.Errorf("Template = %q, want went-well-didnt", cfg.Board.Template)
	}
	if cfg.Events.DebounceMs != 100 {
		t.Errorf("DebounceMs = %d, want 100", cfg.Events.DebounceMs)
	}
	if filepath.Base(cfg.DatabasePath) != "retro.db" {
		t.Errorf("DatabasePath = %q, want .../retro.db", cfg.DatabasePath)
	}
	if filepath.Base(cfg.SocketPath) != "retro.sock" {
		t.Errorf("SocketPath = %q, want .../retro.sock", cfg.SocketPath)
	}
	if cfg.ColorScheme.Accent != DefaultColorScheme().Accent {
		t.Errorf("Accent = %q, want default preset", cfg.ColorScheme.Accent)
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "retro")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `database_path: /tmp/team.db
log_level: debug
board:
  max_votes_per_user: 3
  template: mad-sad-glad
events:
  disabled: true
theme:
  preset: monochrome
  accent: "#FF0000"
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with config file failed: %v", err)
	}

	if cfg.DatabasePath != "/tmp/team.db" {
		t.Errorf("DatabasePath = %q, want /tmp/team.db", cfg.DatabasePath)
	}
	if cfg.Board.MaxVotesPerUser != 3 {
		t.Errorf("MaxVotesPerUser = %d, want 3", cfg.Board.MaxVotesPerUser)
	}
	if cfg.Board.Template != "mad-sad-glad" {
		t.Errorf("Template = %q, want mad-sad-glad", cfg.Board.Template)
	}
	if !cfg.Events.Disabled {
		t.Error("Events.Disabled = false, want true")
	}
	// Explicit values win over the preset, the rest come from it
	if cfg.ColorScheme.Accent != "#FF0000" {
		t.Errorf("Accent = %q, want #FF0000", cfg.ColorScheme.Accent)
	}
	if cfg.ColorScheme.Normal != MonochromeColorScheme().Normal {
		t.Errorf("Normal = %q, want monochrome preset value", cfg.ColorScheme.Normal)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("board: [not, a, map"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom() with invalid YAML should fail")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	cfg.Board.MaxVotesPerUser = 8
	cfg.SocketPath = "/tmp/retro-test.sock"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() after save failed: %v", err)
	}
	if reloaded.Board.MaxVotesPerUser != 8 {
		t.Errorf("MaxVotesPerUser = %d, want 8", reloaded.Board.MaxVotesPerUser)
	}
	if reloaded.SocketPath != "/tmp/retro-test.sock" {
		t.Errorf("SocketPath = %q, want /tmp/retro-test.sock", reloaded.SocketPath)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}

	v := viper.New()
	v.Set(KeyDatabase, "/data/override.db")
	v.Set(KeyMaxVotes, 9)
	v.Set(KeyNoEvents, true)
	v.Set(KeyTheme, "monochrome")

	cfg.ApplyOverrides(v)

	if cfg.DatabasePath != "/data/override.db" {
		t.Errorf("DatabasePath = %q, want /data/override.db", cfg.DatabasePath)
	}
	if cfg.Board.MaxVotesPerUser != 9 {
		t.Errorf("MaxVotesPerUser = %d, want 9", cfg.Board.MaxVotesPerUser)
	}
	if !cfg.Events.Disabled {
		t.Error("Events.Disabled = false, want true")
	}
	if cfg.ColorScheme.Preset != "monochrome" {
		t.Errorf("Preset = %q, want monochrome", cfg.ColorScheme.Preset)
	}
	// Unset keys keep their file/default values
	if cfg.Board.Template != "went-well-didnt" {
		t.Errorf("Template = %q, want went-well-didnt", cfg.Board.Template)
	}
}

func TestApplyOverridesFromEnv(t *testing.T) {
	t.Setenv("RETRO_SOCKET", "/run/retro.sock")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("RETRO")
	v.AutomaticEnv()

	cfg.ApplyOverrides(v)

	if cfg.SocketPath != "/run/retro.sock" {
		t.Errorf("SocketPath = %q, want /run/retro.sock", cfg.SocketPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "vote budget too high", mutate: func(c *Config) { c.Board.MaxVotesPerUser = 101 }, wantErr: "max_votes_per_user"},
		{name: "negative vote budget", mutate: func(c *Config) { c.Board.MaxVotesPerUser = -1 }, wantErr: "max_votes_per_user"},
		{name: "unknown template", mutate: func(c *Config) { c.Board.Template = "kanban" }, wantErr: "board.template"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatalf("LoadFrom() failed: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for input, want := range tests {
		got, err := ParseLogLevel(input)
		if err != nil {
			t.Errorf("ParseLogLevel(%q) error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
