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

// Package rawstore persists and reads back raw collection runs.
//
// Each ingestion run writes one append-only JSONL file per source under
// the store root. Files are named after the source and the run start
// time, never rewritten, and read back leniently: corrupt lines are
// skipped and counted instead of failing the whole file.
package rawstore
