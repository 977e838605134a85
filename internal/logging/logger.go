package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "AGAMA_LOG_LEVEL"

// maxBodyLog caps how much of a request or response body ends up in a log entry.
const maxBodyLog = 512

// Initialize creates a new logger with the specified level.
// If level is empty, it checks AGAMA_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// InitializeFromEnv initializes the logger from the AGAMA_LOG_LEVEL
// environment variable. CLI commands use this to stay silent by default.
func InitializeFromEnv() error {
	return Initialize("")
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer cores.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Named returns a child of the global logger scoped to a component.
func Named(component string) *zap.Logger {
	return GetLogger().Named(component)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogHTTPRequest logs an outgoing or incoming HTTP request
func LogHTTPRequest(l *zap.Logger, method, url string, body []byte) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("body_length", len(body)),
	}
	if len(body) > 0 && l.Core().Enabled(zapcore.DebugLevel) {
		fields = append(fields, zap.String("body", truncate(body)))
	}
	l.Debug("HTTP request", fields...)
}

// LogHTTPResponse logs an HTTP response
func LogHTTPResponse(l *zap.Logger, method, url string, statusCode int, body []byte) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.Int("body_length", len(body)),
	}
	if statusCode >= 400 && len(body) > 0 {
		fields = append(fields, zap.String("body", truncate(body)))
	}
	l.Debug("HTTP response", fields...)
}

// LogEvent logs a change event published or received over the event stream
func LogEvent(l *zap.Logger, direction, eventType, root, collection, resourceID string) {
	l.Info("Change event",
		zap.String("direction", direction),
		zap.String("type", eventType),
		zap.String("root", root),
		zap.String("collection", collection),
		zap.String("resource_id", resourceID),
	)
}

func truncate(data []byte) string {
	if len(data) > maxBodyLog {
		return string(data[:maxBodyLog]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
