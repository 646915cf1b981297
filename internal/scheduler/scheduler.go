// Package scheduler drives the daily summary report. It is deliberately
// outside the ledger core: it only consumes the report service.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/genglo/coop-kiosk/internal/logger"
)

const (
	pollInterval = time.Minute
	runTimeout   = 5 * time.Minute
)

type Reporter interface {
	SendDailySummary(ctx context.Context, date time.Time) error
}

// Scheduler fires the daily report once per local day at or after the
// configured hour. A late start or a long pause still produces at most one
// run for the current day; runs never overlap.
type Scheduler struct {
	reporter Reporter
	hour     int
	now      func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

func New(reporter Reporter, hour int) *Scheduler {
	return &Scheduler{
		reporter: reporter,
		hour:     hour,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()

	logger.Info("scheduler started", logger.Fields{
		"reportHour": s.hour,
	})
}

func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()

	logger.Info("scheduler stopped", nil)
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.runPending()
		}
	}
}

// runPending fires the report when today's run is due and has not happened
// yet. A failed run stays due and is retried on the next tick.
func (s *Scheduler) runPending() {
	now := s.now()
	if now.Hour() < s.hour {
		return
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	s.mu.Lock()
	if s.running || !s.lastRun.Before(today) {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	err := s.reporter.SendDailySummary(ctx, today)
	cancel()

	s.mu.Lock()
	s.running = false
	if err == nil {
		s.lastRun = today
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("scheduler daily report failed", err, logger.Fields{
			"date": today.Format("2006-01-02"),
		})
	}
}
