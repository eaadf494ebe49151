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

// Package remote executes read-only diagnostic commands on the
// monitored host over SSH.
//
// # Session Model
//
// The executor opens a new connection per invocation and closes it when
// the command completes. There is no pooling and there are no automatic
// retries: a failure propagates to the calling collector, which decides
// whether to skip its source for the run.
//
// # Error Classification
//
//   - ErrCodeConnection: host unreachable, handshake or auth failure
//   - ErrCodeCommand: remote command exited non-zero or timed out
//
// # Authentication
//
// Key-based auth is tried when a key path is configured, with password
// auth as fallback. Host keys are verified against a known_hosts file
// when one is configured; otherwise any host key is accepted, which is
// acceptable only on trusted networks.
//
// # Pacing
//
// Invocations are paced by a token-bucket rate limiter so that a run
// against a host with many containers does not issue a burst of log
// queries.
package remote
