// Package config loads and saves the slpstats TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidCode is returned for identity codes not of the form NAME#NUMBER.
var ErrInvalidCode = errors.New("invalid identity code: expected NAME#NUMBER, e.g. ABCD#123")

// Config represents the application configuration.
type Config struct {
	Player  PlayerConfig  `toml:"player"`
	Replays ReplayConfig  `toml:"replays"`
	Storage StorageConfig `toml:"storage"`
	Scan    ScanConfig    `toml:"scan"`
	Watch   WatchConfig   `toml:"watch"`
}

// PlayerConfig identifies the tracked player.
type PlayerConfig struct {
	Code string `toml:"code"` // Identity code, NAME#NUMBER
}

// ReplayConfig locates the replay directory.
type ReplayConfig struct {
	Dir       string `toml:"dir"`       // Directory holding .slp files
	Extension string `toml:"extension"` // Replay extension without the dot
}

// StorageConfig contains the SQLite mirror settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// ScanConfig contains scan reporting settings.
type ScanConfig struct {
	ProgressEvery int  `toml:"progress_every"` // Print progress every N added games (0 = never)
	Verbose       bool `toml:"verbose"`        // Report skipped and foreign replays
}

// WatchConfig contains directory watch settings.
type WatchConfig struct {
	Debounce string `toml:"debounce"` // Quiet period before a rescan (e.g., "2s")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Replays: ReplayConfig{
			Dir:       defaultReplayDir(),
			Extension: "slp",
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(homeDir(), ".slpstats", "stats.db"),
		},
		Scan: ScanConfig{
			ProgressEvery: 50,
		},
		Watch: WatchConfig{
			Debounce: "2s",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".slpstats", "config.toml")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// defaultReplayDir is where Slippi Launcher saves replays by default.
func defaultReplayDir() string {
	return filepath.Join(homeDir(), "Slippi")
}

// Load loads the configuration at path. Returns the default config if the
// file doesn't exist. Missing keys keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values. An empty code is allowed
// here; commands that need one check for it themselves.
func (c *Config) Validate() error {
	if c.Player.Code != "" {
		if _, err := ParseCode(c.Player.Code); err != nil {
			return err
		}
	}
	if c.Replays.Extension == "" {
		return fmt.Errorf("replay extension cannot be empty")
	}
	if strings.ContainsAny(c.Replays.Extension, `/\`) {
		return fmt.Errorf("invalid replay extension %q", c.Replays.Extension)
	}
	if c.Scan.ProgressEvery < 0 {
		return fmt.Errorf("progress interval cannot be negative: %d", c.Scan.ProgressEvery)
	}
	if _, err := c.Debounce(); err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
	}
	return nil
}

// Debounce returns the watch debounce as a duration.
func (c *Config) Debounce() (time.Duration, error) {
	return time.ParseDuration(c.Watch.Debounce)
}

// ParseCode validates an identity code and returns it with the name part
// upper-cased. The number part keeps its leading zeros.
func ParseCode(s string) (string, error) {
	name, num, ok := strings.Cut(strings.TrimSpace(s), "#")
	if !ok || name == "" || num == "" || len(name) > 7 || len(num) > 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	for _, r := range name {
		if !isASCIIAlnum(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
		}
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
		}
	}
	return strings.ToUpper(name) + "#" + num, nil
}

func isASCIIAlnum(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
