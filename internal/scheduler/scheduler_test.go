package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReporter struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (f *fakeReporter) SendDailySummary(_ context.Context, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, date)
	return f.err
}

func (f *fakeReporter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRunPendingFiresAfterHour(t *testing.T) {
	reporter := &fakeReporter{}
	s := New(reporter, 21)
	s.now = func() time.Time {
		return time.Date(2025, time.March, 3, 21, 30, 0, 0, time.Local)
	}

	s.runPending()
	require.Equal(t, 1, reporter.callCount())

	expected := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.Local)
	assert.True(t, reporter.calls[0].Equal(expected))
}

func TestRunPendingWaitsForHour(t *testing.T) {
	reporter := &fakeReporter{}
	s := New(reporter, 21)
	s.now = func() time.Time {
		return time.Date(2025, time.March, 3, 20, 59, 0, 0, time.Local)
	}

	s.runPending()
	assert.Equal(t, 0, reporter.callCount())
}

func TestRunPendingFiresOncePerDay(t *testing.T) {
	reporter := &fakeReporter{}
	s := New(reporter, 21)
	s.now = func() time.Time {
		return time.Date(2025, time.March, 3, 22, 0, 0, 0, time.Local)
	}

	s.runPending()
	s.runPending()
	assert.Equal(t, 1, reporter.callCount())

	// The next day becomes due again.
	s.now = func() time.Time {
		return time.Date(2025, time.March, 4, 21, 0, 0, 0, time.Local)
	}
	s.runPending()
	assert.Equal(t, 2, reporter.callCount())
}

func TestRunPendingRetriesAfterFailure(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("smtp down")}
	s := New(reporter, 21)
	s.now = func() time.Time {
		return time.Date(2025, time.March, 3, 21, 5, 0, 0, time.Local)
	}

	s.runPending()
	require.Equal(t, 1, reporter.callCount())

	// The failed day stays due.
	reporter.err = nil
	s.runPending()
	assert.Equal(t, 2, reporter.callCount())
}

func TestStartStop(t *testing.T) {
	reporter := &fakeReporter{}
	s := New(reporter, 0)

	s.Start()
	s.Stop()
}
