// Package alerts runs the deadline report in the background and logs the
// items that need attention.
package alerts

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nhle/taskspace/internal/report"
)

const (
	defaultInterval = 5 * time.Minute
	checkTimeout    = 30 * time.Second
)

// Analyzer produces a deadline report. *report.Engine satisfies it.
type Analyzer interface {
	DeadlineAnalysis(ctx context.Context) (*report.DeadlineAnalysis, error)
}

// Watcher periodically checks item deadlines.
type Watcher struct {
	analyzer Analyzer
	logger   *slog.Logger
	interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	running bool
	last    *report.DeadlineAnalysis
}

// New creates a Watcher. A non-positive interval falls back to five minutes.
func New(a Analyzer, logger *slog.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		analyzer: a,
		logger:   logger.With("component", "alerts"),
		interval: interval,
	}
}

// Start launches the check loop. It runs one check immediately and then one
// per interval until Stop is called or ctx is cancelled. Calling Start on a
// running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.loop(ctx, w.stopCh, w.doneCh)
}

// Stop halts the loop and waits for an in-flight check to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
}

// Last returns the most recent successful report, or nil.
func (w *Watcher) Last() *report.DeadlineAnalysis {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *Watcher) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if _, err := w.RunOnce(ctx); err != nil {
		w.logger.Error("deadline check failed", "error", err)
	}
}

// RunOnce runs a single deadline check and logs its alerts: critical overdue
// items at Warn, upcoming deadlines at Info.
func (w *Watcher) RunOnce(ctx context.Context) (*report.DeadlineAnalysis, error) {
	rep, err := w.analyzer.DeadlineAnalysis(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range rep.Alerts.CriticalOverdueItems {
		w.logger.Warn("item overdue", alertAttrs(a)...)
	}
	for _, a := range rep.Alerts.UpcomingDeadlines {
		w.logger.Info("deadline approaching", alertAttrs(a)...)
	}
	w.logger.Debug("deadline check done",
		"with_deadline", rep.OverallStatistics.TotalItemsWithDeadlines,
		"overdue", rep.OverallStatistics.OverdueItems,
	)

	w.mu.Lock()
	w.last = rep
	w.mu.Unlock()

	return rep, nil
}

func alertAttrs(a report.AlertItem) []any {
	return []any{
		"item_id", a.ID,
		"item", a.ItemName,
		"priority", a.Priority,
		"status", a.Status,
		"deadline", a.Deadline.Format(time.RFC3339),
		"checklist", a.Checklist,
		"space", a.Space,
		"agent", a.Agent,
	}
}
