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

package collector

import (
	"context"

	"github.com/probelab/hostpulse/pkg/record"
)

// Collector gathers one run's worth of raw records from a single
// telemetry origin. Implementations must respect context cancellation.
type Collector interface {
	Collect(ctx context.Context) ([]record.Raw, error)
}

// Runner executes a non-interactive command on the monitored host and
// returns its captured standard output. remote.Executor is the
// production implementation; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}
