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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/probelab/hostpulse/pkg/errors"
	"github.com/probelab/hostpulse/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecords(t *testing.T, n int) []record.Raw {
	t.Helper()
	faker := gofakeit.New(42)
	records := make([]record.Raw, 0, n)
	for i := 0; i < n; i++ {
		rec := record.NewRaw(record.SourceDocker, "node-1")
		rec.Fields["container_name"] = record.Str(faker.AppName())
		rec.Fields["timestamp"] = record.Str(faker.Date().UTC().Format(time.RFC3339Nano))
		rec.Fields["log"] = record.Str(faker.HackerPhrase())
		records = append(records, rec)
	}
	return records
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 12, 6, 17, 20, 30, 0, time.UTC)
	assert.Equal(t, "systemd_logs_20251206_172030.jsonl", FileName(record.SourceSystemd, at))
	assert.Equal(t, "gpu_logs_20251206_172030.jsonl", FileName(record.SourceGPU, at))
}

func TestWriteAndReadBack(t *testing.T) {
	store := New(t.TempDir())
	records := makeRecords(t, 25)
	at := time.Date(2025, 12, 6, 17, 20, 30, 0, time.UTC)

	path, err := store.Write(record.SourceDocker, at, records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Root, "docker", "docker_logs_20251206_172030.jsonl"), path)

	res, err := store.ReadFile(path)
	require.NoError(t, err)
	assert.Zero(t, res.Skipped)
	require.Len(t, res.Records, len(records))
	for i, rec := range res.Records {
		assert.Equal(t, record.SourceDocker, rec.Source)
		assert.Equal(t, "node-1", rec.Host)
		assert.Equal(t, records[i].Field("log"), rec.Field("log"))
	}
}

func TestWriteEmptyRun(t *testing.T) {
	store := New(t.TempDir())
	at := time.Now()

	path, err := store.Write(record.SourceGPU, at, nil)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "empty run should produce an empty file")
}

func TestWriteRefusesOverwrite(t *testing.T) {
	store := New(t.TempDir())
	at := time.Date(2025, 12, 6, 17, 20, 30, 0, time.UTC)

	_, err := store.Write(record.SourceSystemd, at, makeRecords(t, 1))
	require.NoError(t, err)

	_, err = store.Write(record.SourceSystemd, at, makeRecords(t, 1))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIO))
}

func TestFilesSortedChronologically(t *testing.T) {
	store := New(t.TempDir())
	base := time.Date(2025, 12, 6, 17, 0, 0, 0, time.UTC)

	// Written out of order on purpose.
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		_, err := store.Write(record.SourceSystemd, base.Add(offset), nil)
		require.NoError(t, err)
	}

	paths, err := store.Files(record.SourceSystemd)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Contains(t, paths[0], "20251206_170000")
	assert.Contains(t, paths[1], "20251206_180000")
	assert.Contains(t, paths[2], "20251206_190000")
}

func TestFilesMissingSource(t *testing.T) {
	store := New(t.TempDir())
	paths, err := store.Files(record.SourceDocker)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFilesIgnoresForeign(t *testing.T) {
	store := New(t.TempDir())
	dir := filepath.Join(store.Root, "docker")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docker_logs_20251206_170000.jsonl"), nil, 0o644))

	paths, err := store.Files(record.SourceDocker)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "docker_logs_20251206_170000.jsonl")
}

func TestReadFileSkipsCorruptLines(t *testing.T) {
	store := New(t.TempDir())
	path := filepath.Join(store.Root, "mixed.jsonl")
	content := `{"source":"systemd","host":"node-1","MESSAGE":"ok"}
not json at all
{"source":"systemd","host":"node-1","MESSAGE":"also ok"}

{"source":"bogus","host":"node-1"}
`
	require.NoError(t, os.MkdirAll(store.Root, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := store.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "ok", res.Records[0].Field("MESSAGE"))
	assert.Equal(t, "also ok", res.Records[1].Field("MESSAGE"))
}

func TestReadFileMissing(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.ReadFile(filepath.Join(store.Root, "nope.jsonl"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIO))
}
