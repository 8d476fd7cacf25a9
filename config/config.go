package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SHAH-MEER/tbatlas/api"
	"github.com/SHAH-MEER/tbatlas/snapshot"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. TBATLAS_SERVER_PORT or TBATLAS_DATASET_PATH.
const envPrefix = "TBATLAS"

// DefaultConfigPath is consulted when no config file is specified.
const DefaultConfigPath = "tbatlas.yml"

// Config represents the complete tbatlas configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server" json:"server"`

	// Dataset source configuration
	Dataset DatasetConfig `yaml:"dataset" json:"dataset"`

	// Snapshot cache configuration
	Snapshot snapshot.Config `yaml:"snapshot" json:"snapshot"`

	// Similarity engine configuration
	Similarity SimilarityConfig `yaml:"similarity" json:"similarity"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" split_words:"true"`
}

// DatasetConfig contains dataset source configuration
type DatasetConfig struct {
	// Path to the WHO TB burden CSV file
	Path string `yaml:"path" json:"path"`

	// Watch enables filesystem watching of Path; a write to the file
	// invalidates the in-memory dataset so the next request reloads it
	Watch bool `yaml:"watch" json:"watch"`
}

// SimilarityConfig contains similarity engine configuration
type SimilarityConfig struct {
	// DefaultK is the neighbor count used when a request leaves K unset
	DefaultK int `yaml:"default_k" json:"default_k" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// LoadConfig loads configuration from various sources with the following
// precedence:
// 1. Environment variables (TBATLAS_*)
// 2. Configuration file (tbatlas.yml or specified path)
// 3. Default values
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = DefaultConfigPath
	}

	// Load from file if it exists
	if err := loadConfigFromFile(configPath, config); err != nil {
		// Only return error if file exists but can't be read
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process(envPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadConfigFromFile loads configuration from a YAML file
func loadConfigFromFile(path string, config *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Dataset: DatasetConfig{
			Path:  "data/tb_burden_combined.csv",
			Watch: false,
		},
		Snapshot: snapshot.Config{
			Type: snapshot.TypeMemory,
			Path: "data/snapshots",
		},
		Similarity: SimilarityConfig{
			DefaultK: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Server.Port)
	}

	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path is required")
	}

	if c.Similarity.DefaultK < 1 {
		return fmt.Errorf("similarity default_k must be positive, got %d", c.Similarity.DefaultK)
	}

	if err := snapshot.ValidateConfig(c.Snapshot); err != nil {
		return fmt.Errorf("snapshot config validation failed: %w", err)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// ToServerConfig converts to api.ServerConfig
func (s *ServerConfig) ToServerConfig() api.ServerConfig {
	return api.ServerConfig{
		Host:            s.Host,
		Port:            s.Port,
		ReadTimeout:     s.ReadTimeout,
		WriteTimeout:    s.WriteTimeout,
		IdleTimeout:     60 * time.Second, // Default idle timeout
		ShutdownTimeout: s.ShutdownTimeout,
	}
}

// BuildLogger constructs a zap logger from the logging configuration
func (l *LoggingConfig) BuildLogger() (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if l.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	return zapConfig.Build()
}
