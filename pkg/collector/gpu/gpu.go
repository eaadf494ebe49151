// Copyright (c) 2025, HostPulse Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gpu

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/probelab/hostpulse/pkg/record"
)

// Runner executes a command on the monitored host and returns stdout.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// queryColumns is the fixed set of nvidia-smi columns collected, in
// query order. The raw record keeps the column names verbatim.
var queryColumns = []string{
	"index",
	"name",
	"temperature.gpu",
	"utilization.gpu",
	"memory.total",
	"memory.used",
	"power.draw",
}

// FieldCollectedAt is the collector-stamped collection instant. GPU
// query output carries no per-row timestamp, so this field is the
// event time for the whole sample.
const FieldCollectedAt = "collected_at"

// collectedAtLayout matches the unified event timestamp precision so
// the value survives normalization unchanged.
const collectedAtLayout = "2006-01-02T15:04:05.000000Z07:00"

// Collector gathers one GPU metric sample per device from the
// monitored host via nvidia-smi's machine-readable CSV output.
type Collector struct {
	Runner Runner
	Host   string

	// Clock supplies the collection instant stamped onto every record.
	Clock func() time.Time
}

// Collect queries the fixed metric columns and produces one raw record
// per GPU, tagged source=gpu and stamped with the collection instant.
// Rows with an unexpected column count are skipped with a warning.
func (c *Collector) Collect(ctx context.Context) ([]record.Raw, error) {
	cmd := fmt.Sprintf("nvidia-smi --query-gpu=%s --format=csv,noheader,nounits",
		strings.Join(queryColumns, ","))

	slog.Info("collecting GPU metrics", "host", c.Host)

	raw, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to query GPU metrics: %w", err)
	}

	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}
	collectedAt := clock().UTC().Format(collectedAtLayout)

	records := make([]record.Raw, 0)
	skipped := 0
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cols := strings.Split(line, ",")
		if len(cols) != len(queryColumns) {
			skipped++
			continue
		}

		rec := record.NewRaw(record.SourceGPU, c.Host)
		for i, col := range cols {
			rec.Fields[queryColumns[i]] = record.Str(strings.TrimSpace(col))
		}
		rec.Fields[FieldCollectedAt] = record.Str(collectedAt)
		records = append(records, rec)
	}

	if skipped > 0 {
		slog.Warn("skipped malformed nvidia-smi rows", "host", c.Host, "skipped", skipped)
	}
	if len(records) == 0 {
		slog.Warn("GPU collection produced no records", "host", c.Host)
	} else {
		slog.Info("collected GPU samples", "host", c.Host, "count", len(records))
	}

	return records, nil
}
