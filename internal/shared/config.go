package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Playback PlaybackConfig `toml:"playback"`
	Library  LibraryConfig  `toml:"library"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// PlaybackConfig contains the engine's tunable timing values. The dwell and
// exit-clear defaults were tuned by ear, so they stay configurable.
type PlaybackConfig struct {
	DwellMs            int     `toml:"dwell_ms"`
	ExitClearMs        int     `toml:"exit_clear_ms"`
	SamplerHz          int     `toml:"sampler_hz"`
	ProgressIntervalMs int     `toml:"progress_interval_ms"`
	Epsilon            float64 `toml:"epsilon"`
	LoadLatencyMs      int     `toml:"load_latency_ms"`
}

// Dwell returns the boundary dwell as a duration.
func (p PlaybackConfig) Dwell() time.Duration {
	return time.Duration(p.DwellMs) * time.Millisecond
}

// ExitClear returns the exit-seek clear delay as a duration.
func (p PlaybackConfig) ExitClear() time.Duration {
	return time.Duration(p.ExitClearMs) * time.Millisecond
}

// SamplerInterval returns the sampling period derived from sampler_hz.
func (p PlaybackConfig) SamplerInterval() time.Duration {
	if p.SamplerHz <= 0 {
		return 0
	}
	return time.Second / time.Duration(p.SamplerHz)
}

// ProgressInterval returns the progress throttle spacing as a duration.
func (p PlaybackConfig) ProgressInterval() time.Duration {
	return time.Duration(p.ProgressIntervalMs) * time.Millisecond
}

// LoadLatency returns the simulated media load latency as a duration.
func (p PlaybackConfig) LoadLatency() time.Duration {
	return time.Duration(p.LoadLatencyMs) * time.Millisecond
}

// LibraryConfig contains content library settings.
type LibraryConfig struct {
	Path string `toml:"path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains debug HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port address the debug server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
