// Package poller drives the clipboard history from the system clipboard: on a
// fixed interval it reads the clipboard text and feeds it to the store.
package poller

import (
	"context"
	"log/slog"
	"time"

	"go.klb.dev/clipmgr/internal/clip"
	"go.klb.dev/clipmgr/internal/history"
	"go.klb.dev/clipmgr/internal/logging"
)

// DefaultInterval is the clipboard polling period.
const DefaultInterval = time.Second

// Poller reads the clipboard on every tick and records what it sees.
type Poller struct {
	backend  clip.Backend
	store    *history.Store
	interval time.Duration
}

// New returns a Poller. A non-positive interval uses DefaultInterval.
func New(backend clip.Backend, store *history.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{backend: backend, store: store, interval: interval}
}

func (p *Poller) Interval() time.Duration { return p.interval }

// Poll performs a single tick. A failed read or an empty clipboard counts as
// nothing observed; the next tick retries.
func (p *Poller) Poll() bool {
	text, err := p.backend.ReadText()
	if err != nil {
		slog.Debug("clipboard read failed", "err", err)
		return false
	}
	if text == "" {
		return false
	}
	if !p.store.Observe(text) {
		return false
	}
	slog.Debug("clipboard entry recorded",
		"preview", logging.Preview(text),
		"entries", p.store.Len(),
	)
	return true
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	slog.Info("clipboard polling started",
		"backend", p.backend.Name(),
		"interval", p.interval,
	)
	p.Poll()
	for {
		select {
		case <-ctx.Done():
			slog.Info("clipboard polling stopped")
			return
		case <-t.C:
			p.Poll()
		}
	}
}

// Task is a handle to a running Poller.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start runs p in its own goroutine. The task ends when ctx is cancelled or
// Stop is called.
func (p *Poller) Start(ctx context.Context) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		p.Run(ctx)
	}()
	return t
}

// Stop cancels the task and waits for the poll loop to return.
func (t *Task) Stop() {
	t.cancel()
	<-t.done
}

// Done is closed once the poll loop has returned.
func (t *Task) Done() <-chan struct{} { return t.done }
