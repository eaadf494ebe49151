/*
Copyright © 2025 HostPulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/probelab/hostpulse/pkg/serializer"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			info := map[string]string{
				"name":    name,
				"version": version,
				"commit":  commit,
				"date":    date,
			}
			return serializer.NewStdoutWriter(outFormat).Serialize(ctx, info)
		},
	}
}
