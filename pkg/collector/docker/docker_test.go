package docker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/probelab/hostpulse/pkg/record"
)

// scriptedRunner responds per command prefix.
type scriptedRunner struct {
	psOutput   string
	logOutputs map[string]string // container id -> output
	logErrs    map[string]error
	cmds       []string
}

func (s *scriptedRunner) Run(_ context.Context, command string) (string, error) {
	s.cmds = append(s.cmds, command)
	if strings.HasPrefix(command, "docker ps") {
		return s.psOutput, nil
	}
	for id, err := range s.logErrs {
		if strings.HasSuffix(command, id) {
			return "", err
		}
	}
	for id, out := range s.logOutputs {
		if strings.HasSuffix(command, id) {
			return out, nil
		}
	}
	return "", nil
}

func fixedClock() time.Time {
	return time.Date(2025, 12, 6, 18, 0, 0, 0, time.UTC)
}

func TestCollect(t *testing.T) {
	runner := &scriptedRunner{
		psOutput: "3f8a12bc94d1 open-webui\n77aa00bb11cc ollama\n",
		logOutputs: map[string]string{
			"3f8a12bc94d1": "2025-12-06T17:20:30.123456789Z some message\n",
			"77aa00bb11cc": "2025-12-06T17:21:00.000000000Z loading model\n2025-12-06T17:21:05.500000000Z model ready\n",
		},
	}
	c := &Collector{Runner: runner, Host: "AI-box", SinceMinutes: 60, Clock: fixedClock}

	records, err := c.Collect(context.TODO())
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Source != record.SourceDocker || first.Host != "AI-box" {
		t.Errorf("tags = (%s, %s), want (docker, AI-box)", first.Source, first.Host)
	}
	if first.Field("container_name") != "open-webui" {
		t.Errorf("container_name = %q, want open-webui", first.Field("container_name"))
	}
	if first.Field("container_id") != "3f8a12bc94d1" {
		t.Errorf("container_id = %q", first.Field("container_id"))
	}
	if first.Field("timestamp") != "2025-12-06T17:20:30.123456789Z" {
		t.Errorf("timestamp = %q", first.Field("timestamp"))
	}
	if first.Field("message") != "some message" {
		t.Errorf("message = %q, want %q", first.Field("message"), "some message")
	}

	// The --since window derives from the fixed clock, not wall time.
	for _, cmd := range runner.cmds[1:] {
		if !strings.Contains(cmd, "--since 2025-12-06T17:00:00Z") {
			t.Errorf("log command missing expected window: %q", cmd)
		}
	}
}

func TestCollect_NoContainers(t *testing.T) {
	c := &Collector{
		Runner:       &scriptedRunner{psOutput: ""},
		Host:         "AI-box",
		SinceMinutes: 60,
		Clock:        fixedClock,
	}

	records, err := c.Collect(context.TODO())
	if err != nil {
		t.Fatalf("Collect() with no containers should not fail: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected zero records, got %d", len(records))
	}
}

func TestCollect_PerContainerFailureSkips(t *testing.T) {
	runner := &scriptedRunner{
		psOutput: "aaa one\nbbb two\n",
		logOutputs: map[string]string{
			"bbb": "2025-12-06T17:20:30.000000000Z still here\n",
		},
		logErrs: map[string]error{
			"aaa": errors.New("container restarting"),
		},
	}
	c := &Collector{Runner: runner, Host: "AI-box", SinceMinutes: 60, Clock: fixedClock}

	records, err := c.Collect(context.TODO())
	if err != nil {
		t.Fatalf("Collect() should tolerate one failing container: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record from the healthy container, got %d", len(records))
	}
	if records[0].Field("container_name") != "two" {
		t.Errorf("record came from wrong container: %q", records[0].Field("container_name"))
	}
}

func TestCollect_Allowlist(t *testing.T) {
	runner := &scriptedRunner{
		psOutput: "aaa one\nbbb two\nccc three\n",
		logOutputs: map[string]string{
			"bbb": "2025-12-06T17:20:30.000000000Z hello\n",
		},
	}
	c := &Collector{
		Runner:       runner,
		Host:         "AI-box",
		Containers:   []string{"two", "gone"},
		SinceMinutes: 60,
		Clock:        fixedClock,
	}

	records, err := c.Collect(context.TODO())
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if len(records) != 1 || records[0].Field("container_name") != "two" {
		t.Errorf("allowlist should select only container 'two': %+v", records)
	}
}

func TestCollect_ListFailure(t *testing.T) {
	c := &Collector{Runner: failingRunner{}, Host: "AI-box", SinceMinutes: 60, Clock: fixedClock}

	if _, err := c.Collect(context.TODO()); err == nil {
		t.Error("Collect() should fail when container listing fails")
	}
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestParseLine_NoTimestampPrefix(t *testing.T) {
	c := &Collector{Host: "AI-box"}
	rec := c.parseLine("plain text without prefix", container{id: "aaa", name: "one"})
	if rec.Field("timestamp") != "" {
		t.Errorf("timestamp = %q, want empty", rec.Field("timestamp"))
	}
	if rec.Field("message") != "plain text without prefix" {
		t.Errorf("message = %q", rec.Field("message"))
	}
}

func TestParseLine_NamelessContainerFallsBackToID(t *testing.T) {
	runner := &scriptedRunner{
		psOutput: "deadbeef0001\n",
		logOutputs: map[string]string{
			"deadbeef0001": "2025-12-06T17:20:30.000000000Z up\n",
		},
	}
	c := &Collector{Runner: runner, Host: "AI-box", SinceMinutes: 60, Clock: fixedClock}

	records, err := c.Collect(context.TODO())
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Field("container_name") != "deadbeef0001" {
		t.Errorf("name should fall back to ID, got %q", records[0].Field("container_name"))
	}
}
