// Package logging provides structured logging utilities for HostPulse components.
//
// # Overview
//
// This package wraps the standard library slog package with pipeline-wide
// defaults and conventions. It supports environment-based log level
// configuration, module/version context injection, and automatic source
// location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hostpulse", version)
//
//	    slog.Info("starting ingestion run", "host", cfg.Host)
//	    slog.Warn("no containers to collect logs from")
//	    slog.Error("remote command failed", "error", err)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("hostpulse", version, "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug hostpulse ingest
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// Logs go to stderr so the run summary on stdout stays machine-parseable.
package logging
