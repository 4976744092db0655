package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/shekhartata/mongodbExplainLinter/internal/classifier"
)

// Config holds all configuration for mongolint
type Config struct {
	// MongoDB connection
	ConnectionString string `mapstructure:"connection_string"`
	Database         string `mapstructure:"database"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	AuthSource       string `mapstructure:"auth_source"`

	// Classification thresholds
	MaxExecutionTimeMS         float64 `mapstructure:"max_execution_time_ms"`
	MaxCollectionScanThreshold int64   `mapstructure:"max_collection_scan_threshold"`
	SelectivityRatio           float64 `mapstructure:"selectivity_ratio"`

	// Seed the sample collections when the database is empty
	SeedSampleData bool `mapstructure:"seed_sample_data"`

	// Include system collections in listings
	IncludeSystemCollections bool `mapstructure:"include_system_collections"`

	// CI/CD specific settings
	CIMode   bool   `mapstructure:"ci_mode"`
	PRNumber string `mapstructure:"pr_number"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		ConnectionString:           "mongodb://localhost:27017",
		Database:                   "test",
		AuthSource:                 "admin",
		MaxExecutionTimeMS:         100,
		MaxCollectionScanThreshold: 1000,
		SelectivityRatio:           10,
		SeedSampleData:             true,
		IncludeSystemCollections:   false,
		CIMode:                     false,
		Verbose:                    false,
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (./mongolint.yaml, ~/mongolint.yaml or $XDG_CONFIG_HOME/mongolint/mongolint.yaml)
// 3. Environment variables (MONGOLINT_*)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("connection_string", defaults.ConnectionString)
	v.SetDefault("database", defaults.Database)
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("auth_source", defaults.AuthSource)
	v.SetDefault("max_execution_time_ms", defaults.MaxExecutionTimeMS)
	v.SetDefault("max_collection_scan_threshold", defaults.MaxCollectionScanThreshold)
	v.SetDefault("selectivity_ratio", defaults.SelectivityRatio)
	v.SetDefault("seed_sample_data", defaults.SeedSampleData)
	v.SetDefault("include_system_collections", defaults.IncludeSystemCollections)
	v.SetDefault("ci_mode", defaults.CIMode)
	v.SetDefault("pr_number", "")
	v.SetDefault("verbose", defaults.Verbose)

	v.SetConfigName("mongolint")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}

		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "mongolint"))
		}
	}

	v.SetEnvPrefix("MONGOLINT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.ConnectionString, "mongodb://") &&
		!strings.HasPrefix(c.ConnectionString, "mongodb+srv://") {
		return fmt.Errorf("invalid connection_string: %s (must start with mongodb:// or mongodb+srv://)", c.ConnectionString)
	}

	if c.Database == "" {
		return fmt.Errorf("database cannot be empty")
	}

	if c.MaxExecutionTimeMS <= 0 {
		return fmt.Errorf("max_execution_time_ms must be positive")
	}

	if c.MaxCollectionScanThreshold <= 0 {
		return fmt.Errorf("max_collection_scan_threshold must be positive")
	}

	if c.SelectivityRatio < 1 {
		return fmt.Errorf("selectivity_ratio must be at least 1")
	}

	return nil
}

// ClassifierConfig maps the configured thresholds onto the classifier.
func (c *Config) ClassifierConfig() classifier.Config {
	return classifier.Config{
		SlowQueryMillis:  c.MaxExecutionTimeMS,
		LargeScanDocs:    c.MaxCollectionScanThreshold,
		SelectivityRatio: c.SelectivityRatio,
	}
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# mongolint Configuration
# Save this file as ./mongolint.yaml or ~/mongolint.yaml

# MongoDB connection string (also MONGOLINT_CONNECTION_STRING)
connection_string: mongodb://localhost:27017

# Database the extracted queries run against
database: test

# Optional credentials, embedded into the connection string
# Can also be set via MONGOLINT_USERNAME / MONGOLINT_PASSWORD
# username: linter
# password: secret
auth_source: admin

# Execution time (ms) at or above which a query is flagged as slow
max_execution_time_ms: 100

# Documents examined above which a query is flagged as a large scan
max_collection_scan_threshold: 1000

# Examined-to-returned ratio above which selectivity is called out
selectivity_ratio: 10

# Seed the users/products/orders sample collections when the database is empty
seed_sample_data: true

# Include system collections in listings
include_system_collections: false

# CI mode fails the run on HIGH severity findings, same as --fail-on-issues
ci_mode: false

# Pull request number shown in the report header
# pr_number: "1234"

# Enable verbose output
verbose: false
`
}
