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
	"strings"
)

// Common event attribute keys exported for consistency and type safety.
const (
	// fixed schema keys
	KeyTimestamp = "timestamp"
	KeyCategory  = "category"
	KeySubtype   = "subtype"
	KeyMessage   = "message"

	// systemd attribute keys
	KeyUnit     = "unit"
	KeySeverity = "severity"

	// docker attribute keys
	KeyContainerName = "container_name"
	KeyContainerID   = "container_id"

	// gpu attribute keys
	KeyGPUIndex = "index"
	KeyGPUName  = "name"
	KeyGPUUUID  = "uuid"
)

// Category is the coarse classification of a unified event.
type Category string

const (
	CategoryLog    Category = "log"
	CategoryMetric Category = "metric"
)

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the Category is log or metric.
func (c Category) IsValid() bool {
	return c == CategoryLog || c == CategoryMetric
}

// Event is the normalized, schema-uniform representation of exactly one
// Raw record. Timestamp is an already-normalized ISO-8601 string with
// an explicit offset and microsecond precision; keeping it as a string
// makes repeated normalization runs byte-identical.
type Event struct {
	Timestamp string
	Source    Source
	Host      string
	Category  Category
	Subtype   string
	Message   string
	Attrs     map[string]Value
}

// Validate checks the invariants every unified event must satisfy.
func (e Event) Validate() error {
	if e.Timestamp == "" {
		return errors.New("timestamp cannot be empty")
	}
	if !e.Source.IsValid() {
		return fmt.Errorf("invalid source: %q", e.Source)
	}
	if e.Host == "" {
		return errors.New("host cannot be empty")
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("invalid category: %q", e.Category)
	}
	if e.Subtype == "" {
		return errors.New("subtype cannot be empty")
	}
	return nil
}

// Key is the composite natural key of a unified event. It is always
// fully populated, so downstream deduplication can be a pure function
// of the key alone.
type Key struct {
	Source    Source `json:"source"`
	Host      string `json:"host"`
	Timestamp string `json:"timestamp"`
	Identity  string `json:"identity"`
}

// String renders the key in a stable pipe-delimited form.
func (k Key) String() string {
	return strings.Join([]string{string(k.Source), k.Host, k.Timestamp, k.Identity}, "|")
}

// Key derives the event's natural key. Log events are identified by
// their message; metric events by the metric row identity (GPU UUID
// when present, otherwise index and device name).
func (e Event) Key() Key {
	identity := e.Message
	if e.Category == CategoryMetric {
		identity = e.metricIdentity()
	}
	return Key{
		Source:    e.Source,
		Host:      e.Host,
		Timestamp: e.Timestamp,
		Identity:  identity,
	}
}

func (e Event) metricIdentity() string {
	if v, ok := e.Attrs[KeyGPUUUID]; ok {
		return v.String()
	}
	var parts []string
	if v, ok := e.Attrs[KeyGPUIndex]; ok {
		parts = append(parts, v.String())
	}
	if v, ok := e.Attrs[KeyGPUName]; ok {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ":")
}

// MarshalJSON emits the event as one flat object: fixed schema fields
// first-class, attributes carried through at the top level. Keys are
// emitted sorted for byte-stable output.
func (e Event) MarshalJSON() ([]byte, error) {
	flat := make(map[string]Value, len(e.Attrs)+6)
	for k, v := range e.Attrs {
		flat[k] = v
	}
	flat[KeyTimestamp] = Str(e.Timestamp)
	flat[FieldSource] = Str(string(e.Source))
	flat[FieldHost] = Str(e.Host)
	flat[KeyCategory] = Str(string(e.Category))
	flat[KeySubtype] = Str(e.Subtype)
	if e.Message != "" {
		flat[KeyMessage] = Str(e.Message)
	}
	return json.Marshal(flat)
}

// UnmarshalJSON decodes a flat object back into an Event.
func (e *Event) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tmp map[string]any
	if err := dec.Decode(&tmp); err != nil {
		return err
	}

	e.Attrs = make(map[string]Value, len(tmp))
	for k, v := range tmp {
		switch k {
		case KeyTimestamp:
			e.Timestamp = fmt.Sprintf("%v", v)
		case FieldSource:
			src, ok := ParseSource(fmt.Sprintf("%v", v))
			if !ok {
				return fmt.Errorf("invalid source: %q", v)
			}
			e.Source = src
		case FieldHost:
			e.Host = fmt.Sprintf("%v", v)
		case KeyCategory:
			e.Category = Category(fmt.Sprintf("%v", v))
		case KeySubtype:
			e.Subtype = fmt.Sprintf("%v", v)
		case KeyMessage:
			e.Message = fmt.Sprintf("%v", v)
		default:
			e.Attrs[k] = ToValue(v)
		}
	}
	return nil
}
