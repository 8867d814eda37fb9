package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/satmap/pkg/logging"
)

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -v/--verbose flag (debug)
//  3. -q/--quiet flag (warn)
//  4. LOG_LEVEL environment variable or log.level config key
//  5. info
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)

	logConfig := &logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	}
	if config.Database.LogQueries && level != "trace" {
		// Statements are logged at trace level by the store.
		logConfig.Level = "trace"
	}

	return logging.NewLoggerFromConfig(logConfig)
}

// determineLogLevel determines the log level using the precedence rules.
func determineLogLevel(config *Config) string {
	if config.explicitLevel && config.LogLevel != "" {
		return checkedLevel(config.LogLevel)
	}

	switch {
	case config.Verbose && config.Quiet:
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	case config.Verbose:
		return "debug"
	case config.Quiet:
		return "warn"
	case config.LogLevel != "":
		return checkedLevel(config.LogLevel)
	}
	return "info"
}

// checkedLevel normalizes aliases such as "warning" and falls back to info
// on anything logging.ParseLevel rejects.
func checkedLevel(level string) string {
	l, err := logging.ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", level, "info")
		return "info"
	}
	return l.String()
}
