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
	"encoding/json"
	"fmt"
)

// AllowedScalar is a constraint (compile-time) for what we allow as field values.
type AllowedScalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~bool |
		~string
}

// Value is a *runtime* interface (so it can be stored in a map with mixed types).
type Value interface {
	isValue()
	Any() any
	String() string

	json.Marshaler
	json.Unmarshaler
}

// Scalar wraps an allowed scalar type.
// This is how we keep compile-time constraints while still using a runtime interface.
type Scalar[T AllowedScalar] struct {
	V T
}

func (Scalar[T]) isValue() {}

func (s Scalar[T]) Any() any { return s.V }

// String returns the string representation of the underlying scalar value.
func (s Scalar[T]) String() string {
	return fmt.Sprintf("%v", s.V)
}

// MarshalJSON makes the JSON value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

// UnmarshalJSON unmarshals a JSON value into the underlying scalar.
func (s *Scalar[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.V)
}

// Convenience constructors for each allowed scalar type.
func Int(v int) Value         { return &Scalar[int]{V: v} }
func Int64(v int64) Value     { return &Scalar[int64]{V: v} }
func Uint64(v uint64) Value   { return &Scalar[uint64]{V: v} }
func Float64(v float64) Value { return &Scalar[float64]{V: v} }
func Bool(v bool) Value       { return &Scalar[bool]{V: v} }
func Str(v string) Value      { return &Scalar[string]{V: v} }

// ToValue creates a Value from any allowed scalar type.
// json.Number is resolved to Int64 when it is integral and Float64
// otherwise, so decoded raw records keep numeric fidelity.
// Any other type falls back to its string representation.
func ToValue(v any) Value {
	switch val := v.(type) {
	case Value:
		return val
	case int:
		return Int(val)
	case int64:
		return Int64(val)
	case uint64:
		return Uint64(val)
	case float64:
		return Float64(val)
	case bool:
		return Bool(val)
	case string:
		return Str(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int64(i)
		}
		if f, err := val.Float64(); err == nil {
			return Float64(f)
		}
		return Str(val.String())
	default:
		return Str(fmt.Sprintf("%v", val))
	}
}
