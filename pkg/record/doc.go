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

// Package record defines the two data shapes that flow through the
// pipeline: the source-native Raw record captured from the remote host,
// and the schema-uniform Event produced by the normalizer.
//
// # Raw Records
//
// A Raw record is an opaque mapping of fields exactly as emitted by the
// underlying diagnostic command (journal fields, a container log line,
// GPU metric columns), plus two collector-added fields:
//
//   - source: one of systemd, docker, gpu
//   - host: the hostname the record was collected from
//
// Raw records serialize to a single flat JSON object per line and are
// the system of record: they are written once per ingestion run and
// never mutated, so the normalizer can be re-run over history at any
// time.
//
// # Unified Events
//
// An Event is the normalized representation used by downstream
// consumers. Every event carries a parseable ISO-8601 timestamp with an
// explicit offset, the source enum, the host, a coarse category
// (log or metric), a fine subtype, an optional message, and any
// source-specific attributes carried through from the raw record.
//
// # Typed Values
//
// Both shapes store field values as Value, a small runtime interface
// over compile-time constrained scalars. This keeps GPU metrics as real
// numbers end to end instead of stringifying them:
//
//	fields["utilization.gpu"] = record.Int64(42)
//	fields["power.draw"] = record.Float64(61.5)
//
// # Natural Key
//
// Every Event exposes a composite Key (source, host, timestamp,
// identity) that is always fully populated, so downstream deduplication
// is a pure function of the event rather than a convention.
package record
