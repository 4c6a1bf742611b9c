// Package config loads the application configuration from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dosinput/internal/hotkey"
)

// EnvPrefix prefixes every environment override, e.g. DOSINPUT_LOG_LEVEL
const EnvPrefix = "DOSINPUT"

// Config represents the application configuration
type Config struct {
	// Input contains translation settings
	Input InputConfig `mapstructure:"input"`

	// Network contains the capture frontend and emulation runtime links
	Network NetworkConfig `mapstructure:"network"`

	// API contains the local control API settings
	API APIConfig `mapstructure:"api"`

	// Log contains logger settings
	Log LogConfig `mapstructure:"log"`
}

// InputConfig contains translation settings
type InputConfig struct {
	// MouseActive is the initial mouse translation state
	MouseActive bool `mapstructure:"mouse_active"`

	// MouseSensitivity scales relative (locked) mouse motion
	MouseSensitivity float64 `mapstructure:"mouse_sensitivity"`

	// InputMethod overrides the platform lookup of the active input method (optional)
	InputMethod string `mapstructure:"input_method"`

	// ReleaseHotkey releases every held key and button (e.g. "Ctrl+Alt+End"); empty disables it
	ReleaseHotkey string `mapstructure:"release_hotkey"`

	// MouseHotkey toggles mouse translation; empty disables it
	MouseHotkey string `mapstructure:"mouse_hotkey"`
}

// NetworkConfig contains the capture frontend and emulation runtime links
type NetworkConfig struct {
	// CaptureAddr is the capture frontend WebSocket address ("host:port"); empty disables it
	CaptureAddr string `mapstructure:"capture_addr"`

	// CaptureToken authenticates with the capture frontend
	CaptureToken string `mapstructure:"capture_token"`

	// EmulatorPort is the UDP port emulation runtimes register on
	EmulatorPort int `mapstructure:"emulator_port"`

	// Redundancy is how many times key and button packets are sent
	Redundancy int `mapstructure:"redundancy"`
}

// APIConfig contains the local control API settings
type APIConfig struct {
	// Addr is the listen address ("host:port"); empty disables the API
	Addr string `mapstructure:"addr"`

	// Token, when set, must be presented as a Bearer token or in the WebSocket auth message
	Token string `mapstructure:"token"`
}

// LogConfig contains logger settings
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`

	// Format is "json" or "console"
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MouseActive:      true,
			MouseSensitivity: 1.0,
			ReleaseHotkey:    "Ctrl+Alt+End",
			MouseHotkey:      "Ctrl+Alt+M",
		},
		Network: NetworkConfig{
			EmulatorPort: 9760,
			Redundancy:   3,
		},
		API: APIConfig{
			Addr: "127.0.0.1:9761",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads cfgFile, or dosinput.toml from the config directory when cfgFile is empty.
// A missing default file is not an error. Environment variables override the file.
func Load(cfgFile string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("dosinput")
		v.SetConfigType("toml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("input.mouse_active", cfg.Input.MouseActive)
	v.SetDefault("input.mouse_sensitivity", cfg.Input.MouseSensitivity)
	v.SetDefault("input.input_method", cfg.Input.InputMethod)
	v.SetDefault("input.release_hotkey", cfg.Input.ReleaseHotkey)
	v.SetDefault("input.mouse_hotkey", cfg.Input.MouseHotkey)
	v.SetDefault("network.capture_addr", cfg.Network.CaptureAddr)
	v.SetDefault("network.capture_token", cfg.Network.CaptureToken)
	v.SetDefault("network.emulator_port", cfg.Network.EmulatorPort)
	v.SetDefault("network.redundancy", cfg.Network.Redundancy)
	v.SetDefault("api.addr", cfg.API.Addr)
	v.SetDefault("api.token", cfg.API.Token)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Input.MouseSensitivity <= 0 {
		return fmt.Errorf("input.mouse_sensitivity must be positive, got %v", c.Input.MouseSensitivity)
	}
	for _, chord := range []string{c.Input.ReleaseHotkey, c.Input.MouseHotkey} {
		if chord == "" {
			continue
		}
		if _, _, err := hotkey.ParseChord(chord); err != nil {
			return err
		}
	}
	if c.Network.EmulatorPort < 0 || c.Network.EmulatorPort > 65535 {
		return fmt.Errorf("network.emulator_port out of range: %d", c.Network.EmulatorPort)
	}
	if c.Network.Redundancy < 1 || c.Network.Redundancy > 10 {
		return fmt.Errorf("network.redundancy must be between 1 and 10, got %d", c.Network.Redundancy)
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// ConfigDir returns the platform directory searched for dosinput.toml
func ConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "dosinput")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "dosinput")
	default:
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return filepath.Join(dir, "dosinput")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "dosinput")
	}
}
