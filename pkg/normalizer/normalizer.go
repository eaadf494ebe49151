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

package normalizer

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/probelab/hostpulse/pkg/errors"
	"github.com/probelab/hostpulse/pkg/rawstore"
	"github.com/probelab/hostpulse/pkg/record"
)

// Normalized artifact file names under the output directory.
const (
	JSONLName   = "combined_events.jsonl"
	ParquetName = "combined_events.parquet"
)

// Normalizer reprocesses the complete raw tree into the unified event
// artifacts. Every run is a full, idempotent rebuild: the same raw tree
// always yields byte-identical JSONL.
type Normalizer struct {
	store  *rawstore.Store
	outDir string
}

// New creates a normalizer reading raw run files from rawRoot and
// writing both artifacts under outDir.
func New(rawRoot, outDir string) *Normalizer {
	return &Normalizer{
		store:  rawstore.New(rawRoot),
		outDir: outDir,
	}
}

// Result summarizes one normalization run.
type Result struct {
	Files   int `json:"files" yaml:"files"`
	Read    int `json:"read" yaml:"read"`
	Written int `json:"written" yaml:"written"`
	Dropped int `json:"dropped" yaml:"dropped"`

	JSONLPath   string `json:"jsonl_path" yaml:"jsonl_path"`
	ParquetPath string `json:"parquet_path" yaml:"parquet_path"`
}

// Run enumerates every raw run file source by source, maps each record
// to a unified event, and atomically rewrites both output artifacts.
// Per-record mapping failures are dropped and counted; only artifact
// write failures abort.
func (n *Normalizer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	defer func() {
		normalizeDuration.Observe(time.Since(start).Seconds())
	}()

	res := &Result{}
	var events []record.Event

	for _, source := range record.Sources {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "normalization cancelled", err)
		}

		paths, err := n.store.Files(source)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			read, err := n.store.ReadFile(path)
			if err != nil {
				return nil, err
			}
			res.Files++
			res.Read += len(read.Records)
			res.Dropped += read.Skipped
			normalizeFilesTotal.WithLabelValues(source.String()).Inc()

			for _, raw := range read.Records {
				ev, err := mapRecord(raw)
				if err != nil {
					res.Dropped++
					normalizeRecordsTotal.WithLabelValues(source.String(), "dropped").Inc()
					slog.Warn("dropping unmappable record",
						"source", source, "path", path, "error", err)
					continue
				}
				events = append(events, ev)
				normalizeRecordsTotal.WithLabelValues(source.String(), "written").Inc()
			}
		}
	}

	if err := os.MkdirAll(n.outDir, 0o755); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to create output directory", err,
			map[string]any{"dir": n.outDir})
	}

	jsonlPath := filepath.Join(n.outDir, JSONLName)
	if err := n.writeAtomic(jsonlPath, func(f *os.File) error {
		w := bufio.NewWriter(f)
		enc := json.NewEncoder(w)
		for _, ev := range events {
			if err := enc.Encode(ev); err != nil {
				return errors.Wrap(errors.ErrCodeIO, "failed to encode event", err)
			}
		}
		return w.Flush()
	}); err != nil {
		return nil, err
	}

	parquetPath := filepath.Join(n.outDir, ParquetName)
	if err := n.writeAtomic(parquetPath, func(f *os.File) error {
		return writeParquet(f, events)
	}); err != nil {
		return nil, err
	}

	res.Written = len(events)
	res.JSONLPath = jsonlPath
	res.ParquetPath = parquetPath

	slog.Info("normalization complete",
		"files", res.Files,
		"read", res.Read,
		"written", res.Written,
		"dropped", res.Dropped,
		"duration", time.Since(start).Round(time.Millisecond).String())

	return res, nil
}

// writeAtomic builds the artifact in a temp file next to the target and
// renames it into place, so a failed run never leaves a truncated
// artifact behind.
func (n *Normalizer) writeAtomic(path string, fill func(*os.File) error) error {
	tmp, err := os.CreateTemp(n.outDir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create temp artifact", err,
			map[string]any{"path": path})
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to close temp artifact", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to publish artifact", err,
			map[string]any{"path": path})
	}
	return nil
}
