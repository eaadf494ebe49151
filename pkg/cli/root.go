/*
Copyright © 2025 HostPulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/probelab/hostpulse/pkg/logging"
)

const (
	name           = "hostpulse"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Host telemetry ingestion and normalization",
		Version: version,
		Description: `hostpulse collects telemetry from a remote host over SSH and
normalizes it into one unified event stream.

ingest    - connects to the monitored host and captures systemd journal
            entries, docker container logs, and GPU metrics into raw
            per-source run files.
normalize - reprocesses the raw tree into combined_events.jsonl and
            combined_events.parquet under the processed directory.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("HOSTPULSE_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			ingestCmd(),
			normalizeCmd(),
			versionCmd(),
		},
	}
}

// initLogger configures slog from the global flag. Called at the top of
// every command action so overrides like --log-level take effect before
// anything else runs.
func initLogger(cmd *cli.Command) {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
}

// Execute runs the CLI. It is called by main.main() and only needs to
// happen once.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
