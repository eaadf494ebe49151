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

// Package collector provides interfaces and implementations for pulling
// telemetry from the monitored host.
//
// # Overview
//
// This package defines a unified interface for gathering raw records
// from the three telemetry origins: the systemd journal, container
// logs, and GPU metrics. The source set is closed and stable, so the
// three variants sit behind one small capability interface rather than
// open-ended dispatch.
//
// # Core Interface
//
// The Collector interface defines a single method for gathering data:
//
//	type Collector interface {
//	    Collect(ctx context.Context) ([]record.Raw, error)
//	}
//
// A collector's output is one run's worth of records: re-running
// re-executes the remote commands, it never replays a previous run.
// Empty or malformed command output produces zero records and a logged
// warning, not an error; partial collection is expected (a host with no
// running containers is not a failure).
//
// # Factory Pattern
//
// The Factory interface enables dependency injection and testing by
// abstracting collector creation:
//
//	type Factory interface {
//	    CreateJournalCollector() Collector
//	    CreateDockerCollector() Collector
//	    CreateGPUCollector() Collector
//	}
//
// The DefaultFactory wires the variants to a shared remote Runner with
// configurable options:
//
//	factory := collector.NewDefaultFactory(runner, "AI-box",
//	    collector.WithJournalUnits([]string{"docker.service"}),
//	    collector.WithLogSinceMinutes(60),
//	)
//
// # Variants
//
// Journal (journal): structured journald dump via
// journalctl --output=json, one record per entry.
//
// Docker (docker): container listing via docker ps, then a recent log
// tail per container via docker logs --timestamps.
//
// GPU (gpu): fixed metric columns via nvidia-smi --format=csv, one
// record per GPU, stamped with the collection instant.
package collector
