package config

import (
	"fmt"
	"log/slog"
)

// Supported log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var validLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the slog level for the configured log level
func (c *Config) SlogLevel() slog.Level {
	if level, ok := validLogLevels[c.LogLevel]; ok {
		return level
	}
	return slog.LevelInfo
}

func validateLogLevel(level string) error {
	if _, ok := validLogLevels[level]; !ok {
		return fmt.Errorf("unsupported log level '%s': supported levels are debug, info, warn, error", level)
	}
	return nil
}

func validateLogFormat(format string) error {
	switch format {
	case LogFormatText, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported log format '%s': supported formats are text, json", format)
	}
}
