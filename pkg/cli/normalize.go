/*
Copyright © 2025 HostPulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/probelab/hostpulse/pkg/normalizer"
	"github.com/probelab/hostpulse/pkg/serializer"
)

func normalizeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "normalize",
		EnableShellCompletion: true,
		Usage:                 "Reprocess raw run files into the unified event artifacts",
		Description: `Read every raw run file under <data-dir>/ingested, map each record
to the unified event schema, and rewrite both output artifacts under
<data-dir>/processed:

  combined_events.jsonl   - one event per line
  combined_events.parquet - same events, columnar

Normalization is a full, idempotent reprocess: the same raw tree always
produces the same output. Records that cannot be mapped are dropped and
counted in the result.

# Examples

Normalize the default data directory:
  hostpulse normalize

Report the result as a table:
  hostpulse normalize --data-dir /var/lib/hostpulse --format table`,
		Flags: []cli.Flag{
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

			dataDir := cmd.String("data-dir")
			n := normalizer.New(
				filepath.Join(dataDir, rawSubdir),
				filepath.Join(dataDir, processedSubdir),
			)

			res, err := n.Run(ctx)
			if err != nil {
				return err
			}

			out := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if c, ok := out.(serializer.Closer); ok {
				defer c.Close()
			}
			return out.Serialize(ctx, res)
		},
	}
}
