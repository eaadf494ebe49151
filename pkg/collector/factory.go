package collector

import (
	"time"

	"github.com/probelab/hostpulse/pkg/collector/docker"
	"github.com/probelab/hostpulse/pkg/collector/gpu"
	"github.com/probelab/hostpulse/pkg/collector/journal"
	"github.com/probelab/hostpulse/pkg/defaults"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateJournalCollector() Collector
	CreateDockerCollector() Collector
	CreateGPUCollector() Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	Runner Runner
	Host   string

	JournalUnits      []string
	JournalSinceHours int

	Containers      []string
	LogSinceMinutes int

	Clock func() time.Time
}

// Option configures the DefaultFactory.
type Option func(*DefaultFactory)

// WithJournalUnits sets the systemd units whose journal entries are collected.
func WithJournalUnits(units []string) Option {
	return func(f *DefaultFactory) {
		f.JournalUnits = units
	}
}

// WithJournalSinceHours sets how far back the journal collector reaches.
func WithJournalSinceHours(hours int) Option {
	return func(f *DefaultFactory) {
		f.JournalSinceHours = hours
	}
}

// WithContainers restricts container log collection to an explicit
// allowlist of container names or IDs. Empty means all running containers.
func WithContainers(containers []string) Option {
	return func(f *DefaultFactory) {
		f.Containers = containers
	}
}

// WithLogSinceMinutes sets how far back container log collection reaches.
func WithLogSinceMinutes(minutes int) Option {
	return func(f *DefaultFactory) {
		f.LogSinceMinutes = minutes
	}
}

// WithClock overrides the time source used to stamp GPU records and
// compute collection windows. Tests use this for determinism.
func WithClock(clock func() time.Time) Option {
	return func(f *DefaultFactory) {
		f.Clock = clock
	}
}

// NewDefaultFactory creates a factory bound to one remote runner and
// host, with default collection windows.
func NewDefaultFactory(runner Runner, host string, opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		Runner:            runner,
		Host:              host,
		JournalUnits:      []string{"docker.service"},
		JournalSinceHours: defaults.JournalSinceHours,
		LogSinceMinutes:   defaults.ContainerLogSinceMinutes,
		Clock:             time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateJournalCollector creates a systemd journal collector.
func (f *DefaultFactory) CreateJournalCollector() Collector {
	return &journal.Collector{
		Runner:     f.Runner,
		Host:       f.Host,
		Units:      f.JournalUnits,
		SinceHours: f.JournalSinceHours,
	}
}

// CreateDockerCollector creates a container log collector.
func (f *DefaultFactory) CreateDockerCollector() Collector {
	return &docker.Collector{
		Runner:       f.Runner,
		Host:         f.Host,
		Containers:   f.Containers,
		SinceMinutes: f.LogSinceMinutes,
		Clock:        f.Clock,
	}
}

// CreateGPUCollector creates a GPU telemetry collector.
func (f *DefaultFactory) CreateGPUCollector() Collector {
	return &gpu.Collector{
		Runner: f.Runner,
		Host:   f.Host,
		Clock:  f.Clock,
	}
}
