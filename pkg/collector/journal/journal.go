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

package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/probelab/hostpulse/pkg/record"
)

// Runner executes a command on the monitored host and returns stdout.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// Collector gathers systemd journal entries from the monitored host via
// journalctl's structured JSON output.
type Collector struct {
	Runner     Runner
	Host       string
	Units      []string
	SinceHours int
}

// Collect requests the recent journal for each configured unit and
// parses every line into a raw record tagged source=systemd. Lines that
// are not valid JSON are skipped with a warning. A unit whose query
// fails aborts the collector; the caller decides run policy.
func (c *Collector) Collect(ctx context.Context) ([]record.Raw, error) {
	slog.Info("collecting systemd journal entries", "host", c.Host, "units", c.Units)

	units := c.Units
	if len(units) == 0 {
		units = []string{"docker.service"}
	}

	records := make([]record.Raw, 0)

	for _, unit := range units {
		cmd := fmt.Sprintf("journalctl --since '%d hours ago' -u %s --output=json", c.SinceHours, unit)

		raw, err := c.Runner.Run(ctx, cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to query journal for unit %s: %w", unit, err)
		}

		skipped := 0
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			rec, err := c.parseEntry([]byte(line), unit)
			if err != nil {
				skipped++
				continue
			}
			records = append(records, rec)
		}
		if skipped > 0 {
			slog.Warn("skipped non-JSON lines in journalctl output",
				"host", c.Host, "unit", unit, "skipped", skipped)
		}
	}

	if len(records) == 0 {
		slog.Warn("journal collection produced no records", "host", c.Host, "units", units)
	} else {
		slog.Info("collected journal entries", "host", c.Host, "count", len(records))
	}

	return records, nil
}

// parseEntry decodes one journalctl JSON line into a tagged raw record.
// journald values are strings or arrays of strings; arrays are kept as
// their JSON text since the unified schema has no use for them yet.
func (c *Collector) parseEntry(line []byte, unit string) (record.Raw, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var entry map[string]any
	if err := dec.Decode(&entry); err != nil {
		return record.Raw{}, err
	}

	rec := record.NewRaw(record.SourceSystemd, c.Host)
	for k, v := range entry {
		if k == record.FieldSource || k == record.FieldHost {
			continue
		}
		rec.Fields[k] = record.ToValue(v)
	}

	// Tag the queried unit; journald's own UNIT fields stay untouched.
	if _, ok := rec.Fields[record.KeyUnit]; !ok {
		rec.Fields[record.KeyUnit] = record.Str(unit)
	}

	return rec, nil
}
