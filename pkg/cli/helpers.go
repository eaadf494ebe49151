/*
Copyright © 2025 HostPulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/probelab/hostpulse/pkg/serializer"
)

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "Output file path (default: stdout)",
}

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"t"},
	Usage:   fmt.Sprintf("Output format: %s", strings.Join(serializer.SupportedFormats(), ", ")),
	Value:   string(serializer.FormatJSON),
}

var dataDirFlag = &cli.StringFlag{
	Name:    "data-dir",
	Usage:   "Root data directory for raw and processed artifacts",
	Sources: cli.EnvVars("HOSTPULSE_DATA_DIR"),
	Value:   "data",
}

// parseOutputFormat validates the --format flag value.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}
