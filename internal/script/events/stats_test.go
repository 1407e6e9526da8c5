package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsRecord(t *testing.T) {
	var s Stats
	s.recordDispatch()
	s.recordCall(10*time.Millisecond, false)
	s.recordCall(30*time.Millisecond, true)
	s.recordCall(20*time.Millisecond, false)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Dispatches)
	assert.Equal(t, uint64(3), snap.Calls)
	assert.Equal(t, uint64(1), snap.Failures)
	assert.Equal(t, 60*time.Millisecond, snap.TotalCallTime)
	assert.Equal(t, 30*time.Millisecond, snap.MaxCallTime)
	assert.Equal(t, 20*time.Millisecond, snap.AvgCallTime())
}

func TestStatsNilSafe(t *testing.T) {
	var s *Stats
	assert.NotPanics(t, func() {
		s.recordDispatch()
		s.recordCall(time.Second, true)
	})
	assert.Equal(t, StatsSnapshot{}, s.Snapshot())
	assert.Equal(t, time.Duration(0), s.Snapshot().AvgCallTime())
}
