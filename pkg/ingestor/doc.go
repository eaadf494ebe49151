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

// Package ingestor coordinates one collection run across all telemetry
// sources.
//
// Each source is collected and persisted independently: a failing
// source is recorded on the run summary and the others proceed. Only a
// raw file write failure, or a run where every source came back empty,
// is treated as a failed run.
package ingestor
