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

// Package normalizer converts raw telemetry records into the unified
// event schema.
//
// A run is a full reprocess of the raw tree: every raw run file is
// read, each record is routed to its source-specific mapping, and the
// combined JSONL and Parquet artifacts are rewritten atomically.
// Records that cannot be mapped (unparseable timestamp, missing
// required field) are dropped and counted, never written with a
// fabricated timestamp.
package normalizer
