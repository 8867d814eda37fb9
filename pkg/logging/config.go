package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/satmap/pkg/constants"
)

// Config describes where and how satmap logs.
type Config struct {
	// Level is a zerolog level name or one of the aliases accepted by ParseLevel.
	Level string

	// Format is json, console, or auto (console on a terminal).
	Format string

	// Output is stderr, stdout, discard, or a file path opened for append.
	Output string

	// TimeFormat names a console timestamp layout; see timeLayouts.
	TimeFormat string

	NoColor   bool
	AddCaller bool

	// Fields are attached to every event, e.g. the schema or host of a batch run.
	Fields map[string]any
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Level:      zerolog.InfoLevel.String(),
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

var levelAliases = map[string]zerolog.Level{
	"warning": zerolog.WarnLevel,
	"none":    zerolog.Disabled,
	"off":     zerolog.Disabled,
	"quiet":   zerolog.Disabled,
}

// ParseLevel resolves a level name, case-insensitively. Besides zerolog's
// own names it accepts warning, none, off and quiet.
func ParseLevel(s string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if l, ok := levelAliases[name]; ok {
		return l, nil
	}
	if name == "" {
		return zerolog.NoLevel, fmt.Errorf("empty log level")
	}
	return zerolog.ParseLevel(name)
}

// "unix" maps to the empty layout, which ConsoleWriter prints as epoch seconds.
var timeLayouts = map[string]string{
	"":            time.Kitchen,
	"kitchen":     time.Kitchen,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"unix":        "",
}

// timeLayout resolves a named layout, passes through anything that looks
// like a Go reference-time layout, and falls back to kitchen.
func timeLayout(name string) string {
	if layout, ok := timeLayouts[strings.ToLower(name)]; ok {
		return layout
	}
	if strings.Contains(name, "2006") || strings.Contains(name, "15:04") {
		return name
	}
	return time.Kitchen
}

// NewLoggerFromConfig builds a logger and sets the zerolog global level to
// match, so library code logging through zerolog/log agrees with it.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(cfg.writer()).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	if len(cfg.Fields) > 0 {
		ctx = ctx.Fields(cfg.Fields)
	}
	return ctx.Logger()
}

func (cfg *Config) writer() io.Writer {
	out := cfg.destination()

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			format = "console"
		}
	}
	if format != "console" && format != "pretty" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeLayout(cfg.TimeFormat),
		NoColor:    cfg.NoColor,
	}
}

// destination opens the configured output. An unwritable file path falls
// back to stderr so a bad log setting never blocks a repair run.
func (cfg *Config) destination() io.Writer {
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}
	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log output %q: %v, using stderr\n", cfg.Output, err)
		return os.Stderr
	}
	return f
}
