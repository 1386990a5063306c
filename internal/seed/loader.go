package seed

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrLoaderClosed is reported by Err when Close ran before the load did.
var ErrLoaderClosed = errors.New("seed loader closed before loading")

// Loader applies a dataset once, after an optional delay that simulates a
// slow initial fetch. Close tears the loader down; a pending load that has
// not started by then never runs.
type Loader struct {
	data  *Dataset
	store Store
	clock func() time.Time
	log   *zap.Logger

	mu        sync.Mutex
	timer     *time.Timer
	scheduled bool
	closed    bool
	ran       bool
	done      chan struct{}
	err       error
}

func NewLoader(data *Dataset, store Store, clock func() time.Time, log *zap.Logger) *Loader {
	if clock == nil {
		clock = time.Now
	}
	return &Loader{
		data:  data,
		store: store,
		clock: clock,
		log:   log,
		done:  make(chan struct{}),
	}
}

// Schedule starts the load after delay. A non-positive delay loads
// synchronously. Calls after the first, or after Close, are ignored.
func (l *Loader) Schedule(delay time.Duration) {
	l.mu.Lock()
	if l.closed || l.scheduled {
		l.mu.Unlock()
		return
	}
	l.scheduled = true
	if delay > 0 {
		l.timer = time.AfterFunc(delay, l.fire)
		l.mu.Unlock()
		l.log.Info("seed load scheduled", zap.Duration("delay", delay))
		return
	}
	l.mu.Unlock()
	l.fire()
}

// fire holds the lock for the whole load, so Close either prevents it or
// waits for it to finish.
func (l *Loader) fire() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.ran {
		l.log.Debug("seed load skipped, loader closed")
		return
	}
	l.ran = true
	defer close(l.done)

	err := l.data.Apply(context.Background(), l.store, l.clock())
	switch {
	case errors.Is(err, ErrAlreadySeeded):
		l.log.Info("seed skipped", zap.String("reason", err.Error()))
	case err != nil:
		l.err = err
		l.log.Error("seed load failed", zap.Error(err))
	default:
		l.log.Info("seed data loaded",
			zap.Int("patients", len(l.data.Patients)),
			zap.Int("medicines", len(l.data.Medicines)),
			zap.Int("log_entries", len(l.data.Logs)),
		)
	}
}

// Done is closed once the load has run, or once Close cancels a load that
// never started.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Err reports the load failure, if any. Valid after Done is closed.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close cancels a pending load. It is safe to call more than once.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.closed = true
	if !l.ran {
		l.err = ErrLoaderClosed
		close(l.done)
	}
}
