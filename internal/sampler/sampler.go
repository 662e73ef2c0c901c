// Package sampler runs the perpetual collection loop: one tick pulls a host
// sample, probes connectivity, records into the history store and feeds the
// device's uptime counter to the session tracker.
package sampler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MDTrapaglia/status-page/internal/device"
	"github.com/MDTrapaglia/status-page/internal/history"
	"github.com/MDTrapaglia/status-page/internal/host"
)

type MetricsSource interface {
	Sample() (host.Sample, error)
}

type DeviceSource interface {
	Fetch(ctx context.Context) (device.Status, error)
}

type Options struct {
	Store    *history.Store
	Source   MetricsSource
	Probe    func() *bool
	Device   DeviceSource
	Tracker  *device.SessionTracker
	Interval time.Duration
	// DeviceTimeout bounds the per-tick device poll.
	DeviceTimeout time.Duration
	Log           logrus.FieldLogger
}

type Sampler struct {
	store         *history.Store
	source        MetricsSource
	probe         func() *bool
	device        DeviceSource
	tracker       *device.SessionTracker
	interval      time.Duration
	deviceTimeout time.Duration
	log           logrus.FieldLogger

	seedOnce sync.Once
}

func New(opts Options) *Sampler {
	s := &Sampler{
		store:         opts.Store,
		source:        opts.Source,
		probe:         opts.Probe,
		device:        opts.Device,
		tracker:       opts.Tracker,
		interval:      opts.Interval,
		deviceTimeout: opts.DeviceTimeout,
		log:           opts.Log,
	}
	if s.interval <= 0 {
		s.interval = time.Minute
	}
	if s.deviceTimeout <= 0 {
		s.deviceTimeout = 5 * time.Second
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

// Start launches the loop. Ticks are strictly sequential; a failed tick is
// skipped and retried naturally on the next interval. The loop lives for the
// rest of the process, closing stop only matters in tests.
func (s *Sampler) Start(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.tick(true)
			}
		}
	}()
}

// SeedIfEmpty records one synchronous sample when the recent window is empty
// at request time, so a fresh dashboard is never blank while waiting for the
// first scheduled tick. Runs at most once per process.
func (s *Sampler) SeedIfEmpty() {
	if s.store.RecentLen() > 0 {
		return
	}
	s.seedOnce.Do(func() {
		// The seed sits on a request path: skip the connectivity probe.
		s.tick(false)
	})
}

func (s *Sampler) tick(withProbe bool) {
	sample, err := s.source.Sample()
	if err != nil {
		s.log.WithError(err).Warn("sampler: partial host sample")
	}
	if err != nil && sampleEmpty(sample) {
		s.log.Warn("sampler: skipping tick, nothing sampled")
	} else {
		entry := history.Entry{
			CPUPercent:   sample.CPUPercent,
			RAMPercent:   sample.RAMPercent,
			TemperatureC: sample.TemperatureC,
			FanPercent:   sample.FanPercent,
		}
		if withProbe && s.probe != nil {
			entry.Online = s.probe()
		}
		s.store.Record(entry)
	}

	if s.device == nil || s.tracker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.deviceTimeout)
	status, err := s.device.Fetch(ctx)
	cancel()
	if err != nil {
		s.log.WithError(err).Debug("sampler: device poll failed")
		return
	}
	if status.UptimeSeconds == nil {
		return
	}
	s.tracker.Update(*status.UptimeSeconds)
}

func sampleEmpty(s host.Sample) bool {
	return s.CPUPercent == nil && s.RAMPercent == nil && s.TemperatureC == nil && s.FanPercent == nil
}
