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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion run metrics
	ingestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hostpulse_ingest_run_duration_seconds",
			Help:    "Time taken by a complete ingestion run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	ingestRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_ingest_run_total",
			Help: "Total number of ingestion run attempts",
		},
		[]string{"status"}, // success or error
	)

	ingestSourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostpulse_ingest_source_duration_seconds",
			Help:    "Time taken by individual source collectors",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"source"}, // systemd, docker, gpu
	)

	ingestRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_ingest_records_total",
			Help: "Raw records persisted per source",
		},
		[]string{"source"},
	)
)
