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
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/probelab/hostpulse/pkg/errors"
)

// timestampLayout is the unified event timestamp form: ISO-8601 with
// microsecond precision and an explicit numeric offset ("+00:00" for
// UTC, never "Z").
const timestampLayout = "2006-01-02T15:04:05.000000-07:00"

// formatTimestamp renders t in the unified event form.
func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// fromUnixMicros converts a journal __REALTIME_TIMESTAMP value
// (decimal microseconds since epoch) to the unified form in UTC.
func fromUnixMicros(s string) (string, error) {
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeParse, "invalid epoch microseconds", err,
			map[string]any{"value": s})
	}
	return formatTimestamp(time.UnixMicro(micros).UTC()), nil
}

// normalizeTimestamp parses a textual timestamp and re-renders it in
// the unified form, preserving its original offset. RFC 3339 covers
// what journalctl and docker emit; anything else goes through the
// lenient parser before the record is given up on.
func normalizeTimestamp(s string) (string, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return formatTimestamp(t), nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeParse, "unparseable timestamp", err,
			map[string]any{"value": s})
	}
	return formatTimestamp(t), nil
}
