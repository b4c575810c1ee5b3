package relationships

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.yaml"

// Environment overrides applied by LoadConfig.
const (
	EnvLocale   = "DNAREL_LOCALE"
	EnvDataDir  = "DNAREL_DATA_DIR"
	EnvLogLevel = "DNAREL_LOG_LEVEL"
)

// Config aggregates runtime settings persisted to config.yaml.
type Config struct {
	Locale            string `yaml:"locale"`
	DataDir           string `yaml:"data_dir,omitempty"`
	MaxFractionDigits int    `yaml:"max_fraction_digits"`
	LogLevel          string `yaml:"log_level"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Locale:            DefaultLocale,
		MaxFractionDigits: defaultFractionDigits,
		LogLevel:          "info",
	}
}

// ApplyDefaults populates unset values with defaults. A MaxFractionDigits of zero is
// a valid setting (whole numbers); only negative values are replaced.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = DefaultLocale
	}
	if c.MaxFractionDigits < 0 {
		c.MaxFractionDigits = defaultFractionDigits
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	c.DataDir = strings.TrimSpace(c.DataDir)
}

// NumberFormat builds the number format described by the config.
func (c Config) NumberFormat() (*NumberFormat, error) {
	return NewNumberFormat(c.Locale, c.MaxFractionDigits)
}

// LoadConfig loads configuration from the given path or the default config.yaml.
// A .env file in the working directory is loaded first, and DNAREL_* variables
// override values from the file. Keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg, _, err := LoadConfigFile(path)
	return cfg, err
}

// LoadConfigFile is LoadConfig that also reports whether the config file existed.
func LoadConfigFile(path string) (Config, bool, error) {
	_ = godotenv.Load()
	path = ConfigPath(path)
	cfg := DefaultConfig()
	found := true
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		found = false
	case err != nil:
		return cfg, false, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, true, fmt.Errorf("decode config: %w", err)
		}
	}
	if v := os.Getenv(EnvLocale); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.ApplyDefaults()
	return cfg, found, nil
}

// ConfigPath returns the file LoadConfig and SaveConfig use for path.
func ConfigPath(path string) string {
	if path == "" {
		return defaultConfigFile
	}
	return path
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	path = ConfigPath(path)
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
