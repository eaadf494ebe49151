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

package rawstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/probelab/hostpulse/pkg/errors"
	"github.com/probelab/hostpulse/pkg/record"
)

// runStampLayout names run files by collection start time, second
// precision, so files from the same source sort chronologically.
const runStampLayout = "20060102_150405"

// maxLineBytes bounds a single raw record line. Journal entries can
// carry large binary-ish payload fields; 1 MiB is well beyond anything
// journalctl emits in practice.
const maxLineBytes = 1 << 20

// Store persists raw collection runs as JSONL files under a root
// directory, one subdirectory per source:
//
//	<root>/<source>/<source>_logs_<stamp>.jsonl
//
// Written files are never modified; every run produces a new file.
type Store struct {
	Root string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{Root: dir}
}

// FileName returns the run file name for a source and start time.
func FileName(source record.Source, startedAt time.Time) string {
	return fmt.Sprintf("%s_logs_%s.jsonl", source, startedAt.UTC().Format(runStampLayout))
}

// Write persists one run's records for a source and returns the path of
// the created file. The file is created exclusively so a rerun within
// the same second cannot clobber an earlier run. Zero records still
// produce an (empty) file, which records that the source was collected
// and found quiet.
func (s *Store) Write(source record.Source, startedAt time.Time, records []record.Raw) (string, error) {
	dir := filepath.Join(s.Root, source.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to create source directory", err,
			map[string]any{"dir": dir})
	}

	path := filepath.Join(dir, FileName(source, startedAt))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to create run file", err,
			map[string]any{"path": path})
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			os.Remove(path)
			return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to encode record", err,
				map[string]any{"path": path, "record": i})
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return "", errors.Wrap(errors.ErrCodeIO, "failed to flush run file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", errors.Wrap(errors.ErrCodeIO, "failed to close run file", err)
	}

	slog.Info("wrote raw run file", "source", source, "path", path, "records", len(records))
	return path, nil
}

// Files returns the run file paths for a source in chronological order.
// A missing source directory simply yields no files.
func (s *Store) Files(source record.Source) ([]string, error) {
	dir := filepath.Join(s.Root, source.String())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to list source directory", err,
			map[string]any{"dir": dir})
	}

	prefix := source.String() + "_logs_"
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".jsonl") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadResult reports what a streaming read of one run file yielded.
type ReadResult struct {
	Records []record.Raw
	Skipped int
}

// ReadFile streams a run file back into records. Lines that fail to
// decode are skipped and counted rather than failing the read, so one
// corrupt line cannot poison a whole run file.
func (s *Store) ReadFile(path string) (ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReadResult{}, errors.WrapWithContext(errors.ErrCodeIO, "failed to open run file", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	var res ReadResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec record.Raw
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			res.Skipped++
			slog.Warn("skipping malformed raw record", "path", path, "line", line, "error", err)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return res, errors.WrapWithContext(errors.ErrCodeIO, "failed to read run file", err,
			map[string]any{"path": path})
	}
	return res, nil
}
