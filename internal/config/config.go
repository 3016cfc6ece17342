// Package config provides YAML-based configuration for the docqa server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Model    ModelConfig    `yaml:"model"`
	QA       QAConfig       `yaml:"qa"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	BindAddress    string `yaml:"bind_address"`
	Port           int    `yaml:"port"`
	ReadTimeout    int    `yaml:"read_timeout_seconds"`
	WriteTimeout   int    `yaml:"write_timeout_seconds"`
	IdleTimeout    int    `yaml:"idle_timeout_seconds"`
	BodyLimitBytes int64  `yaml:"body_limit_bytes"`
	EnableCORS     bool   `yaml:"enable_cors"`
	// ExposeErrors embeds raw error text in 500 responses.
	ExposeErrors bool `yaml:"expose_errors"`
}

// StorageConfig contains upload directory settings
type StorageConfig struct {
	UploadDir         string   `yaml:"upload_dir"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// DatabaseConfig selects the SQL backend for the files table.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, duckdb or postgres
	DSN    string `yaml:"dsn"`
}

// ModelConfig points at the extractive QA inference server.
type ModelConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	Name           string `yaml:"name"`
	MaxLength      int    `yaml:"max_length"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// QAConfig holds the dispatcher heuristics.
type QAConfig struct {
	ContextMaxChars        int     `yaml:"context_max_chars"`
	TopicMinParagraphChars int     `yaml:"topic_min_paragraph_chars"`
	TopicMaxParagraphs     int     `yaml:"topic_max_paragraphs"`
	MinContextChars        int     `yaml:"min_context_chars"`
	FuzzyThreshold         float64 `yaml:"fuzzy_threshold"`
	MinAnswerChars         int     `yaml:"min_answer_chars"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BindAddress:    "0.0.0.0",
			Port:           8000,
			ReadTimeout:    120,
			WriteTimeout:   120,
			IdleTimeout:    120,
			BodyLimitBytes: 100 * 1024 * 1024,
			EnableCORS:     false,
			ExposeErrors:   true,
		},
		Storage: StorageConfig{
			UploadDir:         "uploads",
			AllowedExtensions: []string{"pdf", "doc", "docx", "txt"},
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "database.db",
		},
		Model: ModelConfig{
			Enabled:        true,
			BaseURL:        "http://localhost:8081",
			Name:           "bert-base-uncased",
			MaxLength:      512,
			TimeoutSeconds: 60,
		},
		QA: QAConfig{
			ContextMaxChars:        2000,
			TopicMinParagraphChars: 100,
			TopicMaxParagraphs:     3,
			MinContextChars:        10,
			FuzzyThreshold:         0.7,
			MinAnswerChars:         2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file is
// created with the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(configPath string) error {
	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# docqa configuration\n# This file is auto-generated on first run\n\n")
	if err := os.WriteFile(configPath, append(header, output...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "duckdb", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Server.BodyLimitBytes <= 0 {
		return fmt.Errorf("server.body_limit_bytes must be positive")
	}
	if len(c.Storage.AllowedExtensions) == 0 {
		return fmt.Errorf("storage.allowed_extensions must not be empty")
	}
	if c.QA.FuzzyThreshold <= 0 || c.QA.FuzzyThreshold > 1 {
		return fmt.Errorf("qa.fuzzy_threshold must be in (0, 1]")
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("DOCQA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dir := os.Getenv("DOCQA_UPLOAD_DIR"); dir != "" {
		c.Storage.UploadDir = dir
	}
	if driver := os.Getenv("DOCQA_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DOCQA_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if url := os.Getenv("DOCQA_MODEL_URL"); url != "" {
		c.Model.BaseURL = url
	}
	if enabled := os.Getenv("DOCQA_MODEL_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			c.Model.Enabled = b
		}
	}
	if level := os.Getenv("DOCQA_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.UploadDir) {
		c.Storage.UploadDir = filepath.Join(configDir, c.Storage.UploadDir)
	}
	// Only file-backed embedded databases carry a path.
	if c.Database.Driver != "postgres" && c.Database.DSN != ":memory:" && !filepath.IsAbs(c.Database.DSN) {
		c.Database.DSN = filepath.Join(configDir, c.Database.DSN)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetUploadDir returns the absolute uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadDir
}

// IsAllowedExtension reports whether filename carries an allowed extension.
// The extension is whatever follows the last dot, compared case-insensitively.
func (c *AppConfig) IsAllowedExtension(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	ext := strings.ToLower(filename[i+1:])
	for _, allowed := range c.Storage.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// MaxUploadMB is the body limit expressed in whole megabytes.
func (c *AppConfig) MaxUploadMB() int64 {
	return c.Server.BodyLimitBytes / (1024 * 1024)
}

// Timeout returns the inference request timeout.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Storage.UploadDir, err)
	}
	return nil
}
