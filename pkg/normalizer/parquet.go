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
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/probelab/hostpulse/pkg/errors"
	"github.com/probelab/hostpulse/pkg/record"
)

// eventRow is the columnar projection of a unified event. The fixed
// schema is the union of all per-source attributes; absent cells are
// null. Column names match the JSONL keys.
type eventRow struct {
	Timestamp string `parquet:"timestamp"`
	Source    string `parquet:"source"`
	Host      string `parquet:"host"`
	Category  string `parquet:"category"`
	Subtype   string `parquet:"subtype"`
	Message   *string `parquet:"message,optional"`

	Unit     *string `parquet:"unit,optional"`
	Severity *string `parquet:"severity,optional"`

	ContainerName *string `parquet:"container_name,optional"`
	ContainerID   *string `parquet:"container_id,optional"`

	GPUIndex    *int64   `parquet:"gpu_index,optional"`
	GPUName     *string  `parquet:"gpu_name,optional"`
	GPUUUID     *string  `parquet:"gpu_uuid,optional"`
	Temperature *float64 `parquet:"temperature_gpu,optional"`
	Utilization *float64 `parquet:"utilization_gpu,optional"`
	MemoryTotal *float64 `parquet:"memory_total_mib,optional"`
	MemoryUsed  *float64 `parquet:"memory_used_mib,optional"`
	PowerDraw   *float64 `parquet:"power_draw_w,optional"`
}

func toRow(ev record.Event) eventRow {
	row := eventRow{
		Timestamp: ev.Timestamp,
		Source:    ev.Source.String(),
		Host:      ev.Host,
		Category:  ev.Category.String(),
		Subtype:   ev.Subtype,
	}
	if ev.Message != "" {
		row.Message = &ev.Message
	}
	row.Unit = strAttr(ev, record.KeyUnit)
	row.Severity = strAttr(ev, record.KeySeverity)
	row.ContainerName = strAttr(ev, record.KeyContainerName)
	row.ContainerID = strAttr(ev, record.KeyContainerID)
	row.GPUIndex = intAttr(ev, record.KeyGPUIndex)
	row.GPUName = strAttr(ev, record.KeyGPUName)
	row.GPUUUID = strAttr(ev, record.KeyGPUUUID)
	row.Temperature = floatAttr(ev, gpuFieldTemperature)
	row.Utilization = floatAttr(ev, gpuFieldUtilization)
	row.MemoryTotal = floatAttr(ev, gpuFieldMemoryTotal)
	row.MemoryUsed = floatAttr(ev, gpuFieldMemoryUsed)
	row.PowerDraw = floatAttr(ev, gpuFieldPowerDraw)
	return row
}

func strAttr(ev record.Event, key string) *string {
	if v, ok := ev.Attrs[key]; ok {
		s := v.String()
		return &s
	}
	return nil
}

func intAttr(ev record.Event, key string) *int64 {
	v, ok := ev.Attrs[key]
	if !ok {
		return nil
	}
	switch n := v.Any().(type) {
	case int64:
		return &n
	case int:
		i := int64(n)
		return &i
	case float64:
		i := int64(n)
		return &i
	default:
		return nil
	}
}

func floatAttr(ev record.Event, key string) *float64 {
	v, ok := ev.Attrs[key]
	if !ok {
		return nil
	}
	switch n := v.Any().(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	default:
		return nil
	}
}

// writeParquet streams the event set to w as one Parquet file.
func writeParquet(w io.Writer, events []record.Event) error {
	pw := parquet.NewGenericWriter[eventRow](w, parquet.Compression(&parquet.Snappy))

	rows := make([]eventRow, 0, len(events))
	for _, ev := range events {
		rows = append(rows, toRow(ev))
	}
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			pw.Close()
			return errors.Wrap(errors.ErrCodeIO, "failed to write parquet rows", err)
		}
	}
	if err := pw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to finalize parquet file", err)
	}
	return nil
}
