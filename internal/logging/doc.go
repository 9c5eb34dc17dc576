// Package logging provides structured logging for ssdpscan.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used by the discovery client. Logging is silent unless a level is
// given on the command line or through SSDPSCAN_LOG_LEVEL, so normal command
// output is never interleaved with log lines.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Datagram dumps, ignored packets, HTTP attempts
//   - Info: Discovery start and finish, devices found
//   - Warn: Unusual settings (search windows outside 1-5 seconds), retries
//   - Error: Transport and description failures
//
// # Specialized Logging
//
// Datagram Logging:
//
//	logging.LogDatagram("sent", groupAddr, payload)
//	logging.LogDatagram("received", srcAddr, payload)
//	logging.LogDecodeFailure(srcAddr, err, payload)
//
// Description Fetch Logging:
//
//	logging.LogHTTPRequest(http.MethodGet, location, resp.StatusCode, attempt)
//
// # Configuration
//
// Initialize logging once at startup:
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Output Format
//
// Logs are written to stderr in console format:
//
//	2025-11-25T10:30:45.123-0800  DEBUG  SSDP datagram
//	  direction=received
//	  addr=192.168.7.1:1900
//	  length=312
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and
// SetLogger must be called before any concurrent logging starts.
package logging
