package events

import (
	"sync/atomic"
	"time"
)

// Stats counts dispatch activity across every store of a registry.
// Methods are nil-safe.
type Stats struct {
	dispatches atomic.Uint64
	calls      atomic.Uint64
	failures   atomic.Uint64
	totalNs    atomic.Int64
	maxNs      atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Dispatches    uint64
	Calls         uint64
	Failures      uint64
	TotalCallTime time.Duration
	MaxCallTime   time.Duration
}

// AvgCallTime returns the mean listener run time.
func (s StatsSnapshot) AvgCallTime() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.TotalCallTime / time.Duration(s.Calls)
}

func (s *Stats) recordDispatch() {
	if s == nil {
		return
	}
	s.dispatches.Add(1)
}

func (s *Stats) recordCall(d time.Duration, failed bool) {
	if s == nil {
		return
	}
	ns := d.Nanoseconds()
	s.calls.Add(1)
	s.totalNs.Add(ns)
	if failed {
		s.failures.Add(1)
	}
	for {
		old := s.maxNs.Load()
		if ns <= old || s.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	return StatsSnapshot{
		Dispatches:    s.dispatches.Load(),
		Calls:         s.calls.Load(),
		Failures:      s.failures.Load(),
		TotalCallTime: time.Duration(s.totalNs.Load()),
		MaxCallTime:   time.Duration(s.maxNs.Load()),
	}
}
