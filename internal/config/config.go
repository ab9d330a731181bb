// Package config loads the autotagger's configuration from command line
// flags and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultMaxFileSize caps the input PDF size.
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	DefaultLogLevel = "info"
)

// Config holds all configuration for the autotagger.
type Config struct {
	// Paths
	InputPath   string
	OutputPath  string
	SidecarPath string // defaults to OutputPath + ".json"

	// Application configuration
	Version     string
	LogLevel    string
	MaxFileSize int64 // Maximum input PDF size in bytes
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and positional arguments and
// returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	args := pflag.Args()
	if len(args) != 2 {
		return nil, errors.New("expected exactly two arguments: <input.pdf> <output.pdf>")
	}
	cfg.InputPath = args[0]
	cfg.OutputPath = args[1]
	if cfg.SidecarPath == "" {
		cfg.SidecarPath = cfg.OutputPath + ".json"
	}

	if expanded, err := filepath.Abs(cfg.InputPath); err == nil {
		cfg.InputPath = expanded
	}
	if expanded, err := filepath.Abs(cfg.OutputPath); err == nil {
		cfg.OutputPath = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("PDF_AUTOTAG")
	viper.AutomaticEnv()

	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("sidecar", "")
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum input PDF size in bytes")
	pflag.String("sidecar", "", "Path of the JSON structure sidecar (default <output.pdf>.json)")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("sidecar", pflag.Lookup("sidecar"))
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.pdf> <output.pdf>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPDF Autotagger - adds a logical structure tree and marked content to an untagged PDF\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDF_AUTOTAG_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  PDF_AUTOTAG_MAXFILESIZE  Maximum input size\n")
		fmt.Fprintf(os.Stderr, "  PDF_AUTOTAG_SIDECAR      Sidecar path\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.SidecarPath = viper.GetString("sidecar")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input path cannot be empty")
	}
	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}

	info, err := os.Stat(c.InputPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", c.InputPath)
	}
	if err != nil {
		return fmt.Errorf("cannot access input file %s: %w", c.InputPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path is a directory: %s", c.InputPath)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Input: %s, Output: %s, Sidecar: %s, LogLevel: %s, MaxFileSize: %d}",
		c.InputPath, c.OutputPath, c.SidecarPath, c.LogLevel, c.MaxFileSize)
}
