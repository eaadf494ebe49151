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
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/probelab/hostpulse/pkg/rawstore"
	"github.com/probelab/hostpulse/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRawTree(t *testing.T, root string) {
	t.Helper()
	store := rawstore.New(root)
	runAt := time.Date(2025, 12, 6, 17, 20, 30, 0, time.UTC)

	journal := record.NewRaw(record.SourceSystemd, "AI-box")
	journal.Fields["__REALTIME_TIMESTAMP"] = record.Str("1701878430123456")
	journal.Fields["MESSAGE"] = record.Str("Started foo.service")
	journal.Fields["PRIORITY"] = record.Str("6")
	journal.Fields["unit"] = record.Str("docker.service")

	badJournal := record.NewRaw(record.SourceSystemd, "AI-box")
	badJournal.Fields["MESSAGE"] = record.Str("record without a timestamp")

	_, err := store.Write(record.SourceSystemd, runAt, []record.Raw{journal, badJournal})
	require.NoError(t, err)

	dockerRec := record.NewRaw(record.SourceDocker, "AI-box")
	dockerRec.Fields[record.KeyTimestamp] = record.Str("2025-12-06T17:20:30.123456Z")
	dockerRec.Fields[record.KeyMessage] = record.Str("some message")
	dockerRec.Fields[record.KeyContainerName] = record.Str("open-webui")

	_, err = store.Write(record.SourceDocker, runAt, []record.Raw{dockerRec})
	require.NoError(t, err)

	gpuRecords := make([]record.Raw, 0, 2)
	for i := 0; i < 2; i++ {
		rec := record.NewRaw(record.SourceGPU, "AI-box")
		rec.Fields["collected_at"] = record.Str("2025-12-06T17:21:00.500000Z")
		rec.Fields["index"] = record.Str(strconv.Itoa(i))
		rec.Fields["name"] = record.Str("RTX 3090")
		rec.Fields["utilization.gpu"] = record.Str("42")
		rec.Fields["temperature.gpu"] = record.Str("61")
		rec.Fields["memory.total"] = record.Str("24576")
		rec.Fields["memory.used"] = record.Str("3456")
		rec.Fields["power.draw"] = record.Str("284.20")
		gpuRecords = append(gpuRecords, rec)
	}
	_, err = store.Write(record.SourceGPU, runAt, gpuRecords)
	require.NoError(t, err)
}

func readEvents(t *testing.T, path string) []record.Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []record.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev record.Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	return events
}

func TestRun(t *testing.T) {
	rawRoot := t.TempDir()
	outDir := t.TempDir()
	seedRawTree(t, rawRoot)

	n := New(rawRoot, outDir)
	res, err := n.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 5, res.Read)
	assert.Equal(t, 4, res.Written)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, filepath.Join(outDir, "combined_events.jsonl"), res.JSONLPath)
	assert.Equal(t, filepath.Join(outDir, "combined_events.parquet"), res.ParquetPath)

	events := readEvents(t, res.JSONLPath)
	require.Len(t, events, 4)

	// sources come out in fixed order: systemd, docker, gpu
	assert.Equal(t, record.SourceSystemd, events[0].Source)
	assert.Equal(t, "Started foo.service", events[0].Message)
	assert.Equal(t, record.SourceDocker, events[1].Source)
	assert.Equal(t, "some message", events[1].Message)
	assert.Equal(t, record.SourceGPU, events[2].Source)
	assert.Equal(t, record.CategoryMetric, events[2].Category)

	for _, ev := range events {
		require.NoError(t, ev.Validate())
		key := ev.Key()
		assert.NotEmpty(t, key.Identity, "natural key must always be fully populated")
	}
}

func TestRun_Idempotent(t *testing.T) {
	rawRoot := t.TempDir()
	outDir := t.TempDir()
	seedRawTree(t, rawRoot)

	n := New(rawRoot, outDir)

	_, err := n.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(outDir, "combined_events.jsonl"))
	require.NoError(t, err)

	_, err = n.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(outDir, "combined_events.jsonl"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "reprocessing the same raw tree must be byte-identical")
}

func TestRun_ParquetRoundTrip(t *testing.T) {
	rawRoot := t.TempDir()
	outDir := t.TempDir()
	seedRawTree(t, rawRoot)

	n := New(rawRoot, outDir)
	res, err := n.Run(context.Background())
	require.NoError(t, err)

	rows, err := parquet.ReadFile[eventRow](res.ParquetPath)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "systemd", rows[0].Source)
	require.NotNil(t, rows[0].Message)
	assert.Equal(t, "Started foo.service", *rows[0].Message)

	gpuRow := rows[2]
	assert.Equal(t, "metric", gpuRow.Category)
	require.NotNil(t, gpuRow.Utilization)
	assert.Equal(t, float64(42), *gpuRow.Utilization)
	require.NotNil(t, gpuRow.PowerDraw)
	assert.Equal(t, 284.2, *gpuRow.PowerDraw)
	require.NotNil(t, gpuRow.GPUIndex)
	assert.Equal(t, int64(0), *gpuRow.GPUIndex)
	assert.Nil(t, gpuRow.Message, "metric rows carry no message")
}

func TestRun_EmptyTree(t *testing.T) {
	n := New(t.TempDir(), t.TempDir())
	res, err := n.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Files)
	assert.Zero(t, res.Written)

	_, err = os.Stat(res.JSONLPath)
	assert.NoError(t, err, "artifacts exist even for an empty tree")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := New(t.TempDir(), t.TempDir())
	_, err := n.Run(ctx)
	require.Error(t, err)
}
