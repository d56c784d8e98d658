// Package config loads bookprint settings from a TOML file with environment
// overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ByLCY/bookprint/printspec"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains configuration for log output.
type Logging struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// Server contains configuration for the HTTP API.
type Server struct {
	Bind                   string `toml:"bind"`
	MaxUploadMB            int    `toml:"max_upload_mb"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// Output contains where generated manifests and proofs are written.
type Output struct {
	Dir string `toml:"dir"`
}

// Config is the full application configuration.
type Config struct {
	Format  string            `toml:"format"`
	Logging Logging           `toml:"logging"`
	Server  Server            `toml:"server"`
	Output  Output            `toml:"output"`
	Pricing printspec.Pricing `toml:"pricing"`
}

const (
	defaultConfigPath      = "~/.config/bookprint/config.toml"
	defaultBind            = "127.0.0.1:8730"
	defaultOutputDir       = "output"
	defaultMaxUploadMB     = 25
	defaultShutdownSeconds = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Format: printspec.HardcoverSquare.Name,
		Logging: Logging{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Server: Server{
			Bind:                   defaultBind,
			MaxUploadMB:            defaultMaxUploadMB,
			ShutdownTimeoutSeconds: defaultShutdownSeconds,
		},
		Output:  Output{Dir: defaultOutputDir},
		Pricing: printspec.DefaultPricing,
	}
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load reads path (or the default location when path is empty), applies
// BOOKPRINT_* environment overrides and validates the result. It reports the
// resolved path and whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, "", false, err
	}
	if cfg.Logging.File, err = ExpandPath(cfg.Logging.File); err != nil {
		return nil, "", false, fmt.Errorf("logging.file: %w", err)
	}
	if cfg.Output.Dir, err = ExpandPath(cfg.Output.Dir); err != nil {
		return nil, "", false, fmt.Errorf("output.dir: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// PrintFormat resolves the configured book format.
func (c *Config) PrintFormat() printspec.Format {
	f, _ := printspec.LookupFormat(c.Format)
	return f
}

func resolveConfigPath(path string) (string, bool, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultConfigPath
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	switch {
	case err == nil && info.IsDir():
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	case err == nil:
		return expanded, true, nil
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return "", false, fmt.Errorf("config file %s not found", expanded)
		}
		return expanded, false, nil
	default:
		return "", false, fmt.Errorf("stat config: %w", err)
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Clean(trimmed), nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
