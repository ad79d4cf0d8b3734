package log

import (
	"log/slog"
	"os"
	"strings"
)

// Format selects the handler encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures a root logger.
type Options struct {
	Level     slog.Level
	Format    Format
	Component string
}

// FromEnv builds Options from LOG_LEVEL and LOG_FORMAT.
func FromEnv(component string) Options {
	opts := Options{Level: slog.LevelInfo, Format: FormatText, Component: component}

	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		opts.Format = FormatJSON
	}
	return opts
}

// New creates a component-tagged slog logger. The component attribute is
// bound once so every record carries it.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.Format == FormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Component != "" {
		logger = logger.With(FieldComponent, opts.Component)
	}
	return logger
}

// ForComponent derives a logger tagged with another component name.
func ForComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(FieldComponent, component)
}

// SetDefault installs the logger as the process default.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
