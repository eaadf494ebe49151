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

package defaults

import "time"

// Remote execution timeouts.
const (
	// SSHDialTimeout is the timeout for establishing an SSH connection.
	SSHDialTimeout = 10 * time.Second

	// RemoteCommandTimeout is the default timeout for a single remote
	// diagnostic command. Commands must be non-interactive and complete
	// within this bound; the executor respects shorter parent deadlines.
	RemoteCommandTimeout = 30 * time.Second
)

// Run-level timeouts.
const (
	// IngestRunTimeout is the default timeout for one complete
	// ingestion run across all sources.
	IngestRunTimeout = 5 * time.Minute
)

// Collection windows.
const (
	// JournalSinceHours is how far back the journal collector reaches
	// by default.
	JournalSinceHours = 24

	// ContainerLogSinceMinutes is how far back container log collection
	// reaches by default.
	ContainerLogSinceMinutes = 60
)

// Remote command pacing.
const (
	// RemoteCommandsPerSecond caps the rate of remote command
	// invocations within one run. A host running many containers would
	// otherwise see a burst of one docker logs call per container.
	RemoteCommandsPerSecond = 4

	// RemoteCommandBurst is the rate limiter burst allowance.
	RemoteCommandBurst = 2
)
