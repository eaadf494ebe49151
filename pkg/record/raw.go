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

package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Reserved field names the collectors stamp onto every raw record.
const (
	FieldSource = "source"
	FieldHost   = "host"
)

// Source identifies the telemetry origin of a record.
type Source string

// String returns the string representation of the Source.
func (s Source) String() string {
	return string(s)
}

const (
	SourceSystemd Source = "systemd"
	SourceDocker  Source = "docker"
	SourceGPU     Source = "gpu"
)

// Sources is the closed set of supported telemetry origins.
var Sources = []Source{
	SourceSystemd,
	SourceDocker,
	SourceGPU,
}

// ParseSource parses a string into a Source.
// Returns the Source and true if parsing succeeds, or empty Source and false otherwise.
func ParseSource(s string) (Source, bool) {
	for _, src := range Sources {
		if string(src) == s {
			return src, true
		}
	}
	return "", false
}

// IsValid reports whether the Source is one of the supported origins.
func (s Source) IsValid() bool {
	_, ok := ParseSource(string(s))
	return ok
}

// Raw is a source-native telemetry unit as captured from the remote
// host. Fields holds the command's own output verbatim; Source and Host
// are stamped by the collector at collection time. A Raw record is
// immutable once written to a run file.
type Raw struct {
	Source Source
	Host   string
	Fields map[string]Value
}

// NewRaw creates a tagged Raw record with an initialized field map.
func NewRaw(source Source, host string) Raw {
	return Raw{
		Source: source,
		Host:   host,
		Fields: make(map[string]Value),
	}
}

// Validate checks that the record carries its collector-added tags.
func (r Raw) Validate() error {
	if !r.Source.IsValid() {
		return fmt.Errorf("invalid source: %q", r.Source)
	}
	if r.Host == "" {
		return errors.New("host cannot be empty")
	}
	return nil
}

// Field returns the string form of a field value, or "" when absent.
func (r Raw) Field(name string) string {
	if v, ok := r.Fields[name]; ok {
		return v.String()
	}
	return ""
}

// MarshalJSON emits the record as one flat object: the native fields
// plus the source and host tags. Keys are emitted sorted, which keeps
// the raw files byte-stable for a given record set.
func (r Raw) MarshalJSON() ([]byte, error) {
	flat := make(map[string]Value, len(r.Fields)+2)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat[FieldSource] = Str(string(r.Source))
	flat[FieldHost] = Str(r.Host)
	return json.Marshal(flat)
}

// UnmarshalJSON decodes a flat object back into a tagged record.
// Numbers are decoded through json.Number so integer fields do not
// round-trip through float64.
func (r *Raw) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tmp map[string]any
	if err := dec.Decode(&tmp); err != nil {
		return err
	}

	r.Fields = make(map[string]Value, len(tmp))
	for k, v := range tmp {
		switch k {
		case FieldSource:
			src, ok := ParseSource(fmt.Sprintf("%v", v))
			if !ok {
				return fmt.Errorf("invalid source: %q", v)
			}
			r.Source = src
		case FieldHost:
			r.Host = fmt.Sprintf("%v", v)
		default:
			r.Fields[k] = ToValue(v)
		}
	}
	return nil
}
