package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Hotkey   HotkeyConfig `yaml:"hotkey"`
	Audio    AudioConfig  `yaml:"audio"`
	Watch    WatchConfig  `yaml:"watch"`
	Output   OutputConfig `yaml:"output"`
	LogLevel string       `yaml:"log_level"`
}

// ServerConfig describes the remote transcription endpoint.
type ServerConfig struct {
	URL         string        `yaml:"url"`
	FieldName   string        `yaml:"field_name"`
	Timeout     time.Duration `yaml:"timeout"` // 0 = no client timeout
	MaxUploadMB int64         `yaml:"max_upload_mb"`
}

// HotkeyConfig holds the key combos for the two user actions.
type HotkeyConfig struct {
	Record     []string `yaml:"record"`
	Transcribe []string `yaml:"transcribe"`
}

// AudioConfig holds audio capture settings.
type AudioConfig struct {
	SampleRate uint32 `yaml:"sample_rate"`
	Channels   uint32 `yaml:"channels"`
	Autoplay   bool   `yaml:"autoplay"`
}

// WatchConfig holds the drop folder settings. An empty Dir disables watching.
type WatchConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig controls mirroring of results into the active application.
type OutputConfig struct {
	Method string `yaml:"method"` // "none", "type", "paste" or "clipboard"
	Target string `yaml:"target"` // "transcript" or "summary"
}

// MaxUploadBytes returns the upload limit in bytes, or 0 for no limit.
func (s ServerConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 0
	}
	return s.MaxUploadMB * 1024 * 1024
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "voicesum")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         "http://localhost:5000",
			FieldName:   "audio",
			MaxUploadMB: 100,
		},
		Hotkey: HotkeyConfig{
			Record:     []string{"ctrl", "shift", "r"},
			Transcribe: []string{"ctrl", "shift", "t"},
		},
		Audio: AudioConfig{
			SampleRate: 16000,
			Channels:   1,
			Autoplay:   true,
		},
		Output: OutputConfig{
			Method: "none",
			Target: "transcript",
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in watch.dir is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Watch.Dir = expandTilde(cfg.Watch.Dir)

	return cfg, nil
}

// ApplyEnv overrides config values from VOICESUM_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("VOICESUM_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("VOICESUM_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("VOICESUM_WATCH_DIR"); v != "" {
		c.Watch.Dir = expandTilde(v)
	}
}

// WriteDefault writes the default config to DefaultConfigPath if no file
// exists there yet. It returns the path either way.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.url must be an http(s) URL, got %q", c.Server.URL)
	}

	if c.Server.FieldName == "" {
		return fmt.Errorf("server.field_name must not be empty")
	}

	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must be >= 0")
	}

	if len(c.Hotkey.Record) == 0 {
		return fmt.Errorf("hotkey.record must not be empty")
	}

	if len(c.Hotkey.Transcribe) == 0 {
		return fmt.Errorf("hotkey.transcribe must not be empty")
	}

	if strings.Join(c.Hotkey.Record, "+") == strings.Join(c.Hotkey.Transcribe, "+") {
		return fmt.Errorf("hotkey.record and hotkey.transcribe must differ")
	}

	if c.Audio.SampleRate == 0 {
		return fmt.Errorf("audio.sample_rate must be > 0")
	}

	if c.Audio.Channels == 0 {
		return fmt.Errorf("audio.channels must be > 0")
	}

	switch c.Output.Method {
	case "none", "type", "paste", "clipboard":
	default:
		return fmt.Errorf("output.method must be none, type, paste, or clipboard, got %q", c.Output.Method)
	}

	switch c.Output.Target {
	case "transcript", "summary":
	default:
		return fmt.Errorf("output.target must be \"transcript\" or \"summary\", got %q", c.Output.Target)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// ParseLogLevel maps a log_level string to a slog level. Unknown values map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
