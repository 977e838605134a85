// Package logging provides structured logging for the agama tools.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used by the resource client, the HTTP transport and the reference
// configuration service.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Request/response traces, upsert decisions, retry attempts
//   - Info: Service lifecycle, change events, applied change sets
//   - Warn: Retries, dropped event subscribers
//   - Error: Startup failures, handler errors
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Connection stored",
//	    zap.String("id", "eth0"),
//	    zap.String("outcome", "replaced"),
//	)
//
// # Configuration
//
// CLI commands stay silent unless AGAMA_LOG_LEVEL (or --log-level) is set:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Logs go to stderr in console format so they never mix with command output.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically. Initialize and SetLogger are meant to be
// called once during startup.
package logging
