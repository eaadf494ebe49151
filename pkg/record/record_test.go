package record

import (
	"encoding/json"
	"testing"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Source
		wantOk bool
	}{
		{"systemd", "systemd", SourceSystemd, true},
		{"docker", "docker", SourceDocker, true},
		{"gpu", "gpu", SourceGPU, true},
		{"invalid", "kernel", "", false},
		{"empty", "", "", false},
		{"uppercase", "Docker", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotOk := ParseSource(tt.input)
			if got != tt.want || gotOk != tt.wantOk {
				t.Errorf("ParseSource(%q) = (%v, %v), want (%v, %v)", tt.input, got, gotOk, tt.want, tt.wantOk)
			}
		})
	}
}

func TestToValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int", 42, 42},
		{"int64", int64(9223372036854775807), int64(9223372036854775807)},
		{"float64", 61.5, 61.5},
		{"bool", true, true},
		{"string", "RTX 3090", "RTX 3090"},
		{"integral number", json.Number("42"), int64(42)},
		{"fractional number", json.Number("61.5"), 61.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToValue(tt.in)
			if got.Any() != tt.want {
				t.Errorf("ToValue(%v).Any() = %v (%T), want %v (%T)", tt.in, got.Any(), got.Any(), tt.want, tt.want)
			}
		})
	}
}

func TestRaw_Validate(t *testing.T) {
	r := NewRaw(SourceSystemd, "AI-box")
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() on tagged record = %v, want nil", err)
	}

	r.Host = ""
	if err := r.Validate(); err == nil {
		t.Error("Validate() with empty host should fail")
	}

	r = NewRaw(Source("syslog"), "AI-box")
	if err := r.Validate(); err == nil {
		t.Error("Validate() with unknown source should fail")
	}
}

func TestRaw_JSONRoundTrip(t *testing.T) {
	r := NewRaw(SourceGPU, "AI-box")
	r.Fields["name"] = Str("RTX 3090")
	r.Fields["utilization.gpu"] = Int64(42)
	r.Fields["power.draw"] = Float64(284.2)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var got Raw
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	if got.Source != SourceGPU {
		t.Errorf("Source = %q, want %q", got.Source, SourceGPU)
	}
	if got.Host != "AI-box" {
		t.Errorf("Host = %q, want %q", got.Host, "AI-box")
	}
	if v := got.Fields["utilization.gpu"].Any(); v != int64(42) {
		t.Errorf("utilization.gpu = %v (%T), want int64 42", v, v)
	}
	if v := got.Fields["power.draw"].Any(); v != 284.2 {
		t.Errorf("power.draw = %v (%T), want float64 284.2", v, v)
	}
	if v := got.Fields["name"].Any(); v != "RTX 3090" {
		t.Errorf("name = %v, want RTX 3090", v)
	}
}

func TestRaw_MarshalIsDeterministic(t *testing.T) {
	r := NewRaw(SourceDocker, "AI-box")
	r.Fields["container_name"] = Str("open-webui")
	r.Fields["message"] = Str("some message")

	first, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	second, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("repeated Marshal() differs:\n%s\n%s", first, second)
	}
}

func TestEvent_Validate(t *testing.T) {
	valid := Event{
		Timestamp: "2023-12-06T17:20:30.123456+00:00",
		Source:    SourceSystemd,
		Host:      "AI-box",
		Category:  CategoryLog,
		Subtype:   "systemd",
		Message:   "Started foo.service",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Event)
	}{
		{"missing timestamp", func(e *Event) { e.Timestamp = "" }},
		{"invalid source", func(e *Event) { e.Source = "syslog" }},
		{"missing host", func(e *Event) { e.Host = "" }},
		{"invalid category", func(e *Event) { e.Category = "trace" }},
		{"missing subtype", func(e *Event) { e.Subtype = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if err := e.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestEvent_Key(t *testing.T) {
	log := Event{
		Timestamp: "2023-12-06T17:20:30.123456+00:00",
		Source:    SourceDocker,
		Host:      "AI-box",
		Category:  CategoryLog,
		Subtype:   "docker",
		Message:   "some message",
	}
	k := log.Key()
	if k.Identity != "some message" {
		t.Errorf("log identity = %q, want message", k.Identity)
	}
	if k.Source != SourceDocker || k.Host != "AI-box" || k.Timestamp != log.Timestamp {
		t.Errorf("key not fully populated: %+v", k)
	}

	metric := Event{
		Timestamp: "2023-12-06T17:20:30.123456+00:00",
		Source:    SourceGPU,
		Host:      "AI-box",
		Category:  CategoryMetric,
		Subtype:   "gpu",
		Attrs: map[string]Value{
			KeyGPUIndex: Int64(0),
			KeyGPUName:  Str("RTX 3090"),
		},
	}
	if got := metric.Key().Identity; got != "0:RTX 3090" {
		t.Errorf("metric identity = %q, want %q", got, "0:RTX 3090")
	}

	metric.Attrs[KeyGPUUUID] = Str("GPU-8c447f38")
	if got := metric.Key().Identity; got != "GPU-8c447f38" {
		t.Errorf("metric identity with uuid = %q, want uuid", got)
	}
}

func TestEvent_JSONFlattensAttrs(t *testing.T) {
	e := Event{
		Timestamp: "2025-12-06T17:20:30.123456+00:00",
		Source:    SourceDocker,
		Host:      "AI-box",
		Category:  CategoryLog,
		Subtype:   "docker",
		Message:   "some message",
		Attrs: map[string]Value{
			KeyContainerName: Str("open-webui"),
		},
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal() to map failed: %v", err)
	}
	if flat["container_name"] != "open-webui" {
		t.Errorf("container_name should be a top-level key, got %v", flat)
	}
	if _, nested := flat["Attrs"]; nested {
		t.Error("attrs must not be nested under a wrapper key")
	}

	var back Event
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() to Event failed: %v", err)
	}
	if back.Message != "some message" || back.Attrs[KeyContainerName].String() != "open-webui" {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestEvent_MessageOmittedForMetrics(t *testing.T) {
	e := Event{
		Timestamp: "2025-12-06T17:20:30.123456+00:00",
		Source:    SourceGPU,
		Host:      "AI-box",
		Category:  CategoryMetric,
		Subtype:   "gpu",
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if _, ok := flat["message"]; ok {
		t.Error("empty message should be omitted")
	}
}
