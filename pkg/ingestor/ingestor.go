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

package ingestor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/probelab/hostpulse/pkg/collector"
	"github.com/probelab/hostpulse/pkg/errors"
	"github.com/probelab/hostpulse/pkg/rawstore"
	"github.com/probelab/hostpulse/pkg/record"
)

// Ingestor runs one collection pass over all three sources and persists
// each source's records as a raw run file.
type Ingestor struct {
	// Factory creates the source collectors. Must be set.
	Factory collector.Factory

	// Store persists raw run files. Must be set.
	Store *rawstore.Store

	// Host is the monitored host name recorded on the summary.
	Host string

	// MaxParallel bounds concurrent source collection. Zero means one
	// session per source at a time.
	MaxParallel int

	// Clock supplies the run start time. Tests use this for determinism.
	Clock func() time.Time
}

// SourceStatus reports what one source contributed to a run.
type SourceStatus struct {
	Records int    `json:"records" yaml:"records"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary is the user-visible result of one ingestion run.
type Summary struct {
	RunID     string                  `json:"run_id" yaml:"run_id"`
	Host      string                  `json:"host" yaml:"host"`
	StartedAt string                  `json:"started_at" yaml:"started_at"`
	Duration  string                  `json:"duration" yaml:"duration"`
	Records   int                     `json:"records" yaml:"records"`
	Sources   map[string]SourceStatus `json:"sources" yaml:"sources"`
}

// Empty reports whether the run collected nothing from every source.
// An empty run is the one per-source condition that fails the whole
// run: partial failures are tolerated, total silence is not.
func (s *Summary) Empty() bool {
	return s.Records == 0
}

// Run executes one ingestion pass: each source is collected and
// persisted in its own goroutine with bounded parallelism. A source
// failure is recorded on the summary and the run continues; a raw file
// write failure aborts the run.
func (i *Ingestor) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	defer func() {
		ingestRunDuration.Observe(time.Since(start).Seconds())
	}()

	clock := i.Clock
	if clock == nil {
		clock = time.Now
	}
	startedAt := clock().UTC()

	summary := &Summary{
		RunID:     uuid.NewString(),
		Host:      i.Host,
		StartedAt: startedAt.Format(time.RFC3339),
		Sources:   make(map[string]SourceStatus, len(record.Sources)),
	}

	slog.Info("starting ingestion run", "run_id", summary.RunID, "host", i.Host)

	collectors := map[record.Source]collector.Collector{
		record.SourceSystemd: i.Factory.CreateJournalCollector(),
		record.SourceDocker:  i.Factory.CreateDockerCollector(),
		record.SourceGPU:     i.Factory.CreateGPUCollector(),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	limit := i.MaxParallel
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for source, c := range collectors {
		g.Go(func() error {
			sourceStart := time.Now()
			defer func() {
				ingestSourceDuration.WithLabelValues(source.String()).Observe(time.Since(sourceStart).Seconds())
			}()

			records, err := c.Collect(gctx)
			if err != nil {
				slog.Error("source collection failed",
					"run_id", summary.RunID, "source", source, "error", err)
				mu.Lock()
				summary.Sources[source.String()] = SourceStatus{Error: err.Error()}
				mu.Unlock()
				return nil
			}

			path, err := i.Store.Write(source, startedAt, records)
			if err != nil {
				// IO failures are fatal: producing raw artifacts is the
				// run's sole purpose.
				return err
			}

			ingestRecordsTotal.WithLabelValues(source.String()).Add(float64(len(records)))
			mu.Lock()
			summary.Sources[source.String()] = SourceStatus{Records: len(records), File: path}
			summary.Records += len(records)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		ingestRunTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(errors.ErrCodeIO, "ingestion run failed", err)
	}

	summary.Duration = time.Since(start).Round(time.Millisecond).String()
	ingestRunTotal.WithLabelValues("success").Inc()

	slog.Info("ingestion run complete",
		"run_id", summary.RunID,
		"records", summary.Records,
		"duration", summary.Duration)

	return summary, nil
}
