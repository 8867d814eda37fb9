package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/errors"
)

// DatabaseConfig describes the catalog database.
type DatabaseConfig struct {
	Driver      string
	DSN         string
	AutoMigrate bool
	LogQueries  bool
}

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	Database  DatabaseConfig
	RulesFile string

	// Matching
	Threshold float64
	Workers   int

	// Repair batching
	SyntheticBatch int
	UpdateBatch    int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// explicitLevel is set when --log-level was given.
	explicitLevel bool
}

// dsnFallbacks are read, in order, when database.dsn is not set.
var dsnFallbacks = []string{"SUPABASE_DB_URL", "DATABASE_URL"}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or ~/.satmap.yaml / ./.satmap.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Database: DatabaseConfig{
			Driver:      v.GetString("database.driver"),
			DSN:         v.GetString("database.dsn"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
			LogQueries:  v.GetBool("database.log_queries"),
		},
		RulesFile: v.GetString("rules_file"),

		Threshold: v.GetFloat64("threshold"),
		Workers:   v.GetInt("workers"),

		SyntheticBatch: v.GetInt("batch.synthetic"),
		UpdateBatch:    v.GetInt("batch.updates"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log.level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", v.GetString("log.format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", v.GetString("log.output")),
	}

	if config.Database.DSN == "" {
		for _, key := range dsnFallbacks {
			if dsn := os.Getenv(key); dsn != "" {
				config.Database.DSN = dsn
				break
			}
		}
	}

	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", constants.DefaultDatabaseDriver)
	v.SetDefault("threshold", constants.AcceptanceThreshold)
	v.SetDefault("workers", constants.DefaultWorkers)
	v.SetDefault("batch.synthetic", constants.SyntheticBatchSize)
	v.SetDefault("batch.updates", constants.UpdateBatchSize)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// Validate checks the numeric settings.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return errors.NewValidationError("threshold", c.Threshold, "must be between 0 and 1")
	}
	if c.Workers < 1 || c.Workers > constants.MaxWorkers {
		return errors.NewValidationError("workers", c.Workers, "out of range")
	}
	if c.SyntheticBatch <= 0 {
		return errors.NewValidationError("batch.synthetic", c.SyntheticBatch, "must be positive")
	}
	if c.UpdateBatch <= 0 {
		return errors.NewValidationError("batch.updates", c.UpdateBatch, "must be positive")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
		c.explicitLevel = true
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first; godotenv never overrides variables already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
