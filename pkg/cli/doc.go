// Package cli implements the command-line interface for the hostpulse tool.
//
// # Overview
//
// The hostpulse CLI provides commands for collecting telemetry from a
// remote host over SSH and normalizing the captured data into one
// unified event stream. It is designed for operators monitoring a
// single GPU workstation or server without an agent on the box.
//
// # Commands
//
// ingest - Collect telemetry into raw run files:
//
//	hostpulse ingest --host ai-box --user ops --key ~/.ssh/id_ed25519
//
// Connects to the monitored host, captures systemd journal entries,
// docker container logs, and GPU metrics, and writes one JSONL run file
// per source under the data directory. Prints a run summary.
//
// normalize - Rebuild the unified event artifacts:
//
//	hostpulse normalize [--data-dir DIR] [--format json|yaml|table]
//
// Reprocesses every raw run file into combined_events.jsonl and
// combined_events.parquet. Idempotent: the same raw tree always yields
// the same output.
//
// version - Print version information.
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: json, yaml, table (default: json)
//
// Logs go to stderr as structured JSON; command results go to stdout or
// the --output file, so the two never interleave.
package cli
