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
	"fmt"
	"strconv"

	"github.com/probelab/hostpulse/pkg/errors"
	"github.com/probelab/hostpulse/pkg/record"
)

// Journal field names as emitted by journalctl --output=json.
const (
	journalFieldTimestamp = "__REALTIME_TIMESTAMP"
	journalFieldMessage   = "MESSAGE"
	journalFieldPriority  = "PRIORITY"
)

// GPU raw field names as produced by the GPU collector.
const (
	gpuFieldCollectedAt = "collected_at"
	gpuFieldTemperature = "temperature.gpu"
	gpuFieldUtilization = "utilization.gpu"
	gpuFieldMemoryTotal = "memory.total"
	gpuFieldMemoryUsed  = "memory.used"
	gpuFieldPowerDraw   = "power.draw"
)

// syslog priority values, journal PRIORITY field.
var severityNames = map[string]string{
	"0": "emerg",
	"1": "alert",
	"2": "crit",
	"3": "err",
	"4": "warning",
	"5": "notice",
	"6": "info",
	"7": "debug",
}

// mapRecord routes a raw record to its source-specific mapping and
// produces exactly one unified event or a parse error. Mapping never
// fabricates a timestamp: records without a usable one are rejected.
func mapRecord(raw record.Raw) (record.Event, error) {
	var (
		ev  record.Event
		err error
	)
	switch raw.Source {
	case record.SourceSystemd:
		ev, err = mapSystemd(raw)
	case record.SourceDocker:
		ev, err = mapDocker(raw)
	case record.SourceGPU:
		ev, err = mapGPU(raw)
	default:
		return record.Event{}, errors.New(errors.ErrCodeParse,
			fmt.Sprintf("no mapping for source %q", raw.Source))
	}
	if err != nil {
		return record.Event{}, err
	}
	if err := ev.Validate(); err != nil {
		return record.Event{}, errors.Wrap(errors.ErrCodeParse, "mapped event failed validation", err)
	}
	return ev, nil
}

func mapSystemd(raw record.Raw) (record.Event, error) {
	rt := raw.Field(journalFieldTimestamp)
	if rt == "" {
		return record.Event{}, errors.New(errors.ErrCodeParse, "journal record missing __REALTIME_TIMESTAMP")
	}
	ts, err := fromUnixMicros(rt)
	if err != nil {
		return record.Event{}, err
	}

	msg := raw.Field(journalFieldMessage)
	if msg == "" {
		return record.Event{}, errors.New(errors.ErrCodeParse, "journal record missing MESSAGE")
	}

	ev := record.Event{
		Timestamp: ts,
		Source:    raw.Source,
		Host:      raw.Host,
		Category:  record.CategoryLog,
		Subtype:   record.SourceSystemd.String(),
		Message:   msg,
		Attrs:     make(map[string]record.Value),
	}
	if unit := raw.Field(record.KeyUnit); unit != "" {
		ev.Attrs[record.KeyUnit] = record.Str(unit)
	}
	if sev, ok := severityNames[raw.Field(journalFieldPriority)]; ok {
		ev.Attrs[record.KeySeverity] = record.Str(sev)
	}
	return ev, nil
}

func mapDocker(raw record.Raw) (record.Event, error) {
	prefix := raw.Field(record.KeyTimestamp)
	if prefix == "" {
		return record.Event{}, errors.New(errors.ErrCodeParse, "docker record missing timestamp prefix")
	}
	ts, err := normalizeTimestamp(prefix)
	if err != nil {
		return record.Event{}, err
	}

	msg := raw.Field(record.KeyMessage)
	if msg == "" {
		return record.Event{}, errors.New(errors.ErrCodeParse, "docker record missing message")
	}

	ev := record.Event{
		Timestamp: ts,
		Source:    raw.Source,
		Host:      raw.Host,
		Category:  record.CategoryLog,
		Subtype:   record.SourceDocker.String(),
		Message:   msg,
		Attrs:     make(map[string]record.Value),
	}
	if name := raw.Field(record.KeyContainerName); name != "" {
		ev.Attrs[record.KeyContainerName] = record.Str(name)
	}
	if id := raw.Field(record.KeyContainerID); id != "" {
		ev.Attrs[record.KeyContainerID] = record.Str(id)
	}
	return ev, nil
}

// gpuNumericFields are the metric columns converted to typed numbers.
var gpuNumericFields = []string{
	gpuFieldTemperature,
	gpuFieldUtilization,
	gpuFieldMemoryTotal,
	gpuFieldMemoryUsed,
	gpuFieldPowerDraw,
}

func mapGPU(raw record.Raw) (record.Event, error) {
	collectedAt := raw.Field(gpuFieldCollectedAt)
	if collectedAt == "" {
		return record.Event{}, errors.New(errors.ErrCodeParse, "gpu record missing collected_at")
	}
	ts, err := normalizeTimestamp(collectedAt)
	if err != nil {
		return record.Event{}, err
	}

	ev := record.Event{
		Timestamp: ts,
		Source:    raw.Source,
		Host:      raw.Host,
		Category:  record.CategoryMetric,
		Subtype:   record.SourceGPU.String(),
		Attrs:     make(map[string]record.Value),
	}

	if idx := raw.Field(record.KeyGPUIndex); idx != "" {
		ev.Attrs[record.KeyGPUIndex] = numericValue(idx)
	}
	if name := raw.Field(record.KeyGPUName); name != "" {
		ev.Attrs[record.KeyGPUName] = record.Str(name)
	}
	if uuid := raw.Field(record.KeyGPUUUID); uuid != "" {
		ev.Attrs[record.KeyGPUUUID] = record.Str(uuid)
	}
	for _, f := range gpuNumericFields {
		if v := raw.Field(f); v != "" {
			ev.Attrs[f] = numericValue(v)
		}
	}
	return ev, nil
}

// numericValue converts a tabular cell to a typed number where
// possible: integral cells become int64, others float64. Unconvertible
// cells (e.g. "[N/A]" from nvidia-smi) stay strings.
func numericValue(s string) record.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return record.Int64(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return record.Float64(f)
	}
	return record.Str(s)
}
