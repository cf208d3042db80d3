// Package autosave schedules debounced persistence writes. Mutations
// notify the saver; the write fires once the configured delay has passed
// without another notification, coalescing rapid successive edits into a
// single write. The in-memory state stays authoritative throughout; a
// failed write is logged and retried on the next change.
package autosave

import (
	"log/slog"
	"time"
)

// SaveFunc persists the current state. Implementations are expected to be
// idempotent and to skip the write when nothing changed.
type SaveFunc func() error

// Saver is the debounce loop.
//
// Concurrency model: a single internal goroutine owns the timer and calls
// save; public methods communicate with it through channels, so save never
// runs concurrently with itself.
type Saver struct {
	delay  time.Duration
	save   SaveFunc
	logger *slog.Logger

	notifyCh chan struct{}
	flushCh  chan chan error
	stopCh   chan struct{}
	stopped  chan struct{}
}

// New creates a Saver and starts its loop.
func New(delay time.Duration, logger *slog.Logger, save SaveFunc) *Saver {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	s := &Saver{
		delay:    delay,
		save:     save,
		logger:   logger,
		notifyCh: make(chan struct{}, 1),
		flushCh:  make(chan chan error),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go s.run()
	return s
}

// Notify signals that state changed; the pending write (if any) is pushed
// back by the full delay. Never blocks.
func (s *Saver) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Flush forces an immediate write and returns its result.
func (s *Saver) Flush() error {
	ch := make(chan error, 1)
	select {
	case s.flushCh <- ch:
		return <-ch
	case <-s.stopped:
		return nil
	}
}

// Stop performs a final write and shuts the loop down.
func (s *Saver) Stop() {
	select {
	case <-s.stopped:
		return
	default:
	}
	close(s.stopCh)
	<-s.stopped
}

func (s *Saver) run() {
	defer close(s.stopped)

	var timer *time.Timer
	var fire <-chan time.Time

	doSave := func() error {
		err := s.save()
		if err != nil {
			s.logger.Error("autosave: write failed", slog.String("error", err.Error()))
		}
		return err
	}

	for {
		select {
		case <-s.notifyCh:
			if timer == nil {
				timer = time.NewTimer(s.delay)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.delay)
			}

		case <-fire:
			timer = nil
			fire = nil
			_ = doSave()

		case ch := <-s.flushCh:
			if timer != nil {
				timer.Stop()
				timer = nil
				fire = nil
			}
			ch <- doSave()

		case <-s.stopCh:
			if timer != nil {
				timer.Stop()
			}
			_ = doSave()
			return
		}
	}
}
