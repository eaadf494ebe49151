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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Normalization run metrics
	normalizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hostpulse_normalize_duration_seconds",
			Help:    "Time taken to reprocess the full raw tree",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	normalizeRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_normalize_records_total",
			Help: "Raw records processed by normalization outcome",
		},
		[]string{"source", "outcome"}, // written or dropped
	)

	normalizeFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_normalize_files_total",
			Help: "Raw run files read during normalization",
		},
		[]string{"source"},
	)
)
