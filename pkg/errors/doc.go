// Package errors provides structured error types for better observability
// and programmatic error handling across the pipeline.
//
// The codes mirror the pipeline's failure taxonomy: connection and
// command failures are fatal to one source but never to the run, parse
// failures drop a single record, and IO failures abort the run.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeCommand,
//	    "failed to collect GPU metrics",
//	    cause,
//	    map[string]interface{}{
//	        "command": "nvidia-smi",
//	        "host": host,
//	    },
//	)
package errors
