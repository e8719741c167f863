package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the SVG downloader
type Config struct {
	// Miro API access
	Miro MiroConfig `yaml:"miro" json:"miro"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// MiroConfig holds Miro-specific configuration
type MiroConfig struct {
	// Token is a personal access token or OAuth token with boards:read scope
	Token   string `yaml:"token" json:"token"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory     string `yaml:"directory" json:"directory"`
	WriteManifest bool   `yaml:"write_manifest" json:"write_manifest"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	IncludeDocuments bool          `yaml:"include_documents" json:"include_documents"`
	// URLMutations overrides the query-string variants probed per item URL.
	// Empty means the built-in list. The Miro listing API often hands back
	// preview URLs; these mutations are what recovers the original SVG, and
	// the working set shifts with the API, so it stays configuration.
	URLMutations []string `yaml:"url_mutations" json:"url_mutations"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Miro: MiroConfig{
			BaseURL: "https://api.miro.com/v2",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 4,
			MaxRetries:        3,
			RetryDelay:        time.Second,
		},
		Output: OutputConfig{
			Directory:     "./svgs",
			WriteManifest: true,
		},
		Download: DownloadConfig{
			Timeout:          20 * time.Second,
			IncludeDocuments: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// .env files are best-effort
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".mirosvg.env"))

	if token := os.Getenv("MIRO_ACCESS_TOKEN"); token != "" {
		c.Miro.Token = token
	}
	if baseURL := os.Getenv("MIROSVG_BASE_URL"); baseURL != "" {
		c.Miro.BaseURL = baseURL
	}
	if rps := os.Getenv("MIROSVG_REQUESTS_PER_SECOND"); rps != "" {
		if val, err := strconv.ParseFloat(rps, 64); err == nil && val > 0 {
			c.RateLimit.RequestsPerSecond = val
		}
	}
	if outputDir := os.Getenv("MIROSVG_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if includeDocs := os.Getenv("MIROSVG_INCLUDE_DOCUMENTS"); includeDocs != "" {
		c.Download.IncludeDocuments = strings.ToLower(includeDocs) == "true"
	}
	if logLevel := os.Getenv("MIROSVG_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".mirosvg.yaml",
		".mirosvg.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "mirosvg", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "mirosvg", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".mirosvg.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Miro.Token == "" {
		errs = append(errs, errors.New("Miro access token is required"))
	}
	if c.Miro.BaseURL == "" {
		errs = append(errs, errors.New("Miro base URL is required"))
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("requests per second must be positive"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["token"].(string); ok && token != "" {
		c.Miro.Token = token
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if rps, ok := flags["rate-limit"].(float64); ok && rps > 0 {
		c.RateLimit.RequestsPerSecond = rps
	}
	if maxRetries, ok := flags["max-retries"].(int); ok && maxRetries >= 0 {
		c.RateLimit.MaxRetries = maxRetries
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.Timeout = timeout
	}
	if includeDocs, ok := flags["include-docs"].(bool); ok {
		c.Download.IncludeDocuments = includeDocs
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load builds the effective configuration: defaults, then config file,
// then environment, then command line flags.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if flags != nil {
		cfg.MergeCommandLineFlags(flags)
	}

	return cfg, nil
}
