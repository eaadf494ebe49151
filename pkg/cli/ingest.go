/*
Copyright © 2025 HostPulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/probelab/hostpulse/pkg/collector"
	"github.com/probelab/hostpulse/pkg/defaults"
	"github.com/probelab/hostpulse/pkg/ingestor"
	"github.com/probelab/hostpulse/pkg/rawstore"
	"github.com/probelab/hostpulse/pkg/remote"
	"github.com/probelab/hostpulse/pkg/serializer"
)

// rawSubdir and processedSubdir partition the data directory between
// the two pipeline stages.
const (
	rawSubdir       = "ingested"
	processedSubdir = "processed"
)

func ingestCmd() *cli.Command {
	return &cli.Command{
		Name:                  "ingest",
		EnableShellCompletion: true,
		Usage:                 "Collect telemetry from a remote host into raw run files",
		Description: `Connect to the monitored host over SSH and capture:
  - systemd journal entries (journalctl, JSON output)
  - docker container logs (docker logs with timestamps)
  - GPU metrics (nvidia-smi CSV query)

Each source is written to its own run file under <data-dir>/ingested.
A failing source is logged and skipped; the run fails only when every
source comes back empty or a run file cannot be written.

# Examples

Collect the last day of telemetry with key authentication:
  hostpulse ingest --host 10.0.0.12 --user ops --key ~/.ssh/id_ed25519

Limit journal collection to specific units:
  hostpulse ingest --host ai-box --user ops --unit docker.service --unit kubelet.service

Collect only named containers, password auth from the environment:
  HOSTPULSE_SSH_PASSWORD=... hostpulse ingest --host ai-box --user ops \
    --password-env HOSTPULSE_SSH_PASSWORD --container open-webui`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "host",
				Usage:    "Remote host to collect from",
				Sources:  cli.EnvVars("HOSTPULSE_HOST"),
				Required: true,
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "SSH port",
				Value: 22,
			},
			&cli.StringFlag{
				Name:     "user",
				Usage:    "SSH user",
				Sources:  cli.EnvVars("HOSTPULSE_USER"),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "key",
				Usage:   "Path to SSH private key",
				Sources: cli.EnvVars("HOSTPULSE_KEY"),
			},
			&cli.StringFlag{
				Name:  "password-env",
				Usage: "Name of environment variable holding the SSH password",
			},
			&cli.StringFlag{
				Name:    "known-hosts",
				Usage:   "Path to known_hosts file for host key verification (empty disables verification)",
				Sources: cli.EnvVars("HOSTPULSE_KNOWN_HOSTS"),
			},
			&cli.StringSliceFlag{
				Name:  "unit",
				Usage: "Systemd unit to collect journal entries for (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "container",
				Usage: "Container name or ID to collect logs for (can be repeated; default all running)",
			},
			&cli.IntFlag{
				Name:  "since-hours",
				Usage: "How many hours of journal history to collect",
				Value: defaults.JournalSinceHours,
			},
			&cli.IntFlag{
				Name:  "log-since-minutes",
				Usage: "How many minutes of container log history to collect",
				Value: defaults.ContainerLogSinceMinutes,
			},
			&cli.IntFlag{
				Name:  "parallel",
				Usage: "Maximum sources collected concurrently",
				Value: 1,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for the whole ingestion run",
				Value: defaults.IngestRunTimeout,
			},
			dataDirFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			initLogger(cmd)

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			var password string
			if env := cmd.String("password-env"); env != "" {
				password = os.Getenv(env)
				if password == "" {
					return fmt.Errorf("password environment variable %q is empty or unset", env)
				}
			}

			exec, err := remote.NewExecutor(remote.Config{
				Host:           cmd.String("host"),
				Port:           int(cmd.Int("port")),
				User:           cmd.String("user"),
				KeyPath:        cmd.String("key"),
				Password:       password,
				KnownHostsPath: cmd.String("known-hosts"),
			})
			if err != nil {
				return err
			}

			opts := []collector.Option{
				collector.WithJournalSinceHours(int(cmd.Int("since-hours"))),
				collector.WithLogSinceMinutes(int(cmd.Int("log-since-minutes"))),
			}
			if units := cmd.StringSlice("unit"); len(units) > 0 {
				opts = append(opts, collector.WithJournalUnits(units))
			}
			if containers := cmd.StringSlice("container"); len(containers) > 0 {
				opts = append(opts, collector.WithContainers(containers))
			}

			ing := &ingestor.Ingestor{
				Factory:     collector.NewDefaultFactory(exec, cmd.String("host"), opts...),
				Store:       rawstore.New(filepath.Join(cmd.String("data-dir"), rawSubdir)),
				Host:        cmd.String("host"),
				MaxParallel: int(cmd.Int("parallel")),
				Clock:       time.Now,
			}

			runCtx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			summary, err := ing.Run(runCtx)
			if err != nil {
				return err
			}

			out := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if c, ok := out.(serializer.Closer); ok {
				defer c.Close()
			}
			if err := out.Serialize(ctx, summary); err != nil {
				return err
			}

			if summary.Empty() {
				return fmt.Errorf("run %s collected zero records from every source", summary.RunID)
			}
			return nil
		},
	}
}
