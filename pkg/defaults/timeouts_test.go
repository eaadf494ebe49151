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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"SSHDialTimeout", SSHDialTimeout, 1 * time.Second, 30 * time.Second},
		{"RemoteCommandTimeout", RemoteCommandTimeout, 5 * time.Second, 2 * time.Minute},
		{"IngestRunTimeout", IngestRunTimeout, 1 * time.Minute, 30 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue || tt.timeout > tt.maxValue {
				t.Errorf("%s = %v, want between %v and %v", tt.name, tt.timeout, tt.minValue, tt.maxValue)
			}
		})
	}

	// Ordering: a single command must fit well inside the run budget.
	if RemoteCommandTimeout >= IngestRunTimeout {
		t.Error("RemoteCommandTimeout should be less than IngestRunTimeout")
	}
	if SSHDialTimeout > RemoteCommandTimeout {
		t.Error("SSHDialTimeout should not exceed RemoteCommandTimeout")
	}
}

func TestCollectionWindows(t *testing.T) {
	if JournalSinceHours <= 0 {
		t.Error("JournalSinceHours must be positive")
	}
	if ContainerLogSinceMinutes <= 0 {
		t.Error("ContainerLogSinceMinutes must be positive")
	}
}
