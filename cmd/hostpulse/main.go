/*
Copyright © 2025 HostPulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import (
	"github.com/probelab/hostpulse/pkg/cli"
)

func main() {
	cli.Execute()
}
