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

package docker

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

// container is one running container discovered on the host.
type container struct {
	id   string
	name string
}

// Collector gathers recent container log lines from the monitored host.
// It first lists running containers, then tails each container's logs
// with timestamps enabled.
type Collector struct {
	Runner Runner
	Host   string

	// Containers optionally restricts collection to these names or IDs.
	// Empty collects from every running container.
	Containers []string

	// SinceMinutes bounds how far back the log tail reaches.
	SinceMinutes int

	// Clock supplies the reference time for the collection window.
	Clock func() time.Time
}

// Collect lists running containers and tails each one's recent logs,
// producing one raw record per log line tagged source=docker. A failing
// per-container log query skips that container rather than failing the
// run; zero running containers yields zero records and a warning.
func (c *Collector) Collect(ctx context.Context) ([]record.Raw, error) {
	discovered, err := c.listContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	targets := c.filterContainers(discovered)
	if len(targets) == 0 {
		slog.Warn("no containers to collect logs from", "host", c.Host)
		return []record.Raw{}, nil
	}

	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}
	since := clock().UTC().Add(-time.Duration(c.SinceMinutes) * time.Minute).Format(time.RFC3339)

	records := make([]record.Raw, 0)
	for _, ct := range targets {
		cmd := fmt.Sprintf("docker logs --since %s --timestamps %s", since, ct.id)
		slog.Debug("collecting container logs", "host", c.Host, "container", ct.name)

		raw, err := c.Runner.Run(ctx, cmd)
		if err != nil {
			slog.Error("failed to collect container logs",
				"host", c.Host, "container", ct.name, "error", err)
			continue
		}

		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			records = append(records, c.parseLine(line, ct))
		}
	}

	slog.Info("collected container log lines",
		"host", c.Host, "containers", len(targets), "count", len(records))

	return records, nil
}

// listContainers returns the running containers as (id, name) pairs.
func (c *Collector) listContainers(ctx context.Context) ([]container, error) {
	cmd := "docker ps --format '{{.ID}} {{.Names}}'"
	slog.Debug("listing containers", "host", c.Host)

	raw, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var containers []container
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		ct := container{id: parts[0], name: parts[0]}
		if len(parts) == 2 {
			ct.name = parts[1]
		}
		containers = append(containers, ct)
	}

	slog.Info("found running containers", "host", c.Host, "count", len(containers))
	return containers, nil
}

// filterContainers applies the optional allowlist against both names
// and IDs. Requested containers that are not running are warned about.
func (c *Collector) filterContainers(discovered []container) []container {
	if len(c.Containers) == 0 {
		return discovered
	}

	byID := make(map[string]container, len(discovered))
	byName := make(map[string]container, len(discovered))
	for _, ct := range discovered {
		byID[ct.id] = ct
		byName[ct.name] = ct
	}

	var targets []container
	for _, want := range c.Containers {
		if ct, ok := byID[want]; ok {
			targets = append(targets, ct)
		} else if ct, ok := byName[want]; ok {
			targets = append(targets, ct)
		} else {
			slog.Warn("requested container not found", "host", c.Host, "container", want)
		}
	}
	return targets
}

// parseLine splits the docker --timestamps prefix off a log line:
//
//	2025-12-06T17:20:30.123456789Z some message ...
//
// Lines without a prefix keep the whole line as the message and no
// timestamp; the normalizer drops and counts them.
func (c *Collector) parseLine(line string, ct container) record.Raw {
	rec := record.NewRaw(record.SourceDocker, c.Host)
	rec.Fields[record.KeyContainerID] = record.Str(ct.id)
	rec.Fields[record.KeyContainerName] = record.Str(ct.name)

	ts, msg, found := strings.Cut(line, " ")
	if !found || !looksLikeTimestamp(ts) {
		rec.Fields[record.KeyMessage] = record.Str(line)
		return rec
	}

	rec.Fields[record.KeyTimestamp] = record.Str(ts)
	rec.Fields[record.KeyMessage] = record.Str(msg)
	return rec
}

// looksLikeTimestamp is a cheap shape check for an RFC3339-ish prefix;
// full validation happens during normalization.
func looksLikeTimestamp(s string) bool {
	return len(s) >= 20 && s[4] == '-' && s[7] == '-' && s[10] == 'T'
}
