package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"einvoice/internal/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL              = "http://localhost:8000"
	DefaultTimeout             = 60 * time.Second
	DefaultConfidenceThreshold = 80.0
	DefaultBatchWorkers        = 4
	DefaultSheetName           = "Invoices"
)

type Config struct {
	// Backend API
	APIURL          string        `yaml:"api_url"`
	Token           string        `yaml:"-"`
	APIKey          string        `yaml:"-"`
	Timeout         time.Duration `yaml:"timeout"`
	CredentialsFile string        `yaml:"credentials_file"`

	// OCR review and batch processing
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	BatchWorkers        int     `yaml:"batch_workers"`

	// Google Sheets export
	GoogleSheetURL string `yaml:"google_sheet_url"`
	SheetName      string `yaml:"sheet_name"`

	Log logger.LogConfig `yaml:"log"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		APIURL:              DefaultAPIURL,
		Timeout:             DefaultTimeout,
		CredentialsFile:     filepath.Join(home, ".config", "einvoice", "credentials.json"),
		ConfidenceThreshold: DefaultConfidenceThreshold,
		BatchWorkers:        DefaultBatchWorkers,
		SheetName:           DefaultSheetName,
		Log:                 logger.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, the YAML profile and the environment,
// in increasing order of precedence.
func Load() (*Config, error) {
	config := Default()

	if err := config.loadFile(FilePath()); err != nil {
		return nil, err
	}
	if err := config.loadEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// FilePath is $EINVOICE_CONFIG or ~/.config/einvoice/config.yaml.
func FilePath() string {
	if path := os.Getenv("EINVOICE_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "einvoice", "config.yaml")
}

// fileConfig mirrors Config with the timeout in seconds, as users write it.
type fileConfig struct {
	APIURL              string           `yaml:"api_url"`
	TimeoutSeconds      int              `yaml:"timeout"`
	CredentialsFile     string           `yaml:"credentials_file"`
	ConfidenceThreshold *float64         `yaml:"confidence_threshold"`
	BatchWorkers        int              `yaml:"batch_workers"`
	GoogleSheetURL      string           `yaml:"google_sheet_url"`
	SheetName           string           `yaml:"sheet_name"`
	Log                 logger.LogConfig `yaml:"log"`
}

func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	setString(&c.APIURL, fc.APIURL)
	setString(&c.CredentialsFile, fc.CredentialsFile)
	setString(&c.GoogleSheetURL, fc.GoogleSheetURL)
	setString(&c.SheetName, fc.SheetName)
	if fc.TimeoutSeconds != 0 {
		c.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	if fc.ConfidenceThreshold != nil {
		c.ConfidenceThreshold = *fc.ConfidenceThreshold
	}
	if fc.BatchWorkers != 0 {
		c.BatchWorkers = fc.BatchWorkers
	}
	setString(&c.Log.Level, fc.Log.Level)
	setString(&c.Log.Format, fc.Log.Format)
	setString(&c.Log.TimeFormat, fc.Log.TimeFormat)
	setString(&c.Log.Output, fc.Log.Output)
	return nil
}

func (c *Config) loadEnv() error {
	c.APIURL = getEnv("EINVOICE_API_URL", c.APIURL)
	c.Token = getEnv("EINVOICE_TOKEN", c.Token)
	c.APIKey = getEnv("EINVOICE_API_KEY", c.APIKey)
	c.CredentialsFile = getEnv("EINVOICE_CREDENTIALS_FILE", c.CredentialsFile)
	c.GoogleSheetURL = getEnv("GOOGLE_SHEET_URL", c.GoogleSheetURL)
	c.SheetName = getEnv("GOOGLE_SHEET_WORKSHEET", c.SheetName)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Log.TimeFormat = getEnv("LOG_TIME_FORMAT", c.Log.TimeFormat)
	c.Log.Output = getEnv("LOG_OUTPUT", c.Log.Output)

	if v := os.Getenv("EINVOICE_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EINVOICE_TIMEOUT must be a number of seconds: %w", err)
		}
		c.Timeout = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("CONFIDENCE_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CONFIDENCE_THRESHOLD must be a number: %w", err)
		}
		c.ConfidenceThreshold = threshold
	}
	if v := os.Getenv("BATCH_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BATCH_WORKERS must be a number: %w", err)
		}
		c.BatchWorkers = workers
	}
	return nil
}

// Validate rejects settings the client cannot work with.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("EINVOICE_API_URL is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("EINVOICE_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return fmt.Errorf("confidence threshold must be between 0 and 100, got %.1f", c.ConfidenceThreshold)
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("batch workers must be positive, got %d", c.BatchWorkers)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return c.Log
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
