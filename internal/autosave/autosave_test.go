package autosave

import (
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNotifyCoalescesIntoOneSave(t *testing.T) {
	var saves atomic.Int32
	s := New(100*time.Millisecond, testLogger(), func() error {
		saves.Add(1)
		return nil
	})
	defer s.Stop()

	// A burst of edits inside the delay window.
	for i := 0; i < 10; i++ {
		s.Notify()
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for saves.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := saves.Load(); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
}

func TestNotifyPushesTheWriteBack(t *testing.T) {
	var saves atomic.Int32
	s := New(150*time.Millisecond, testLogger(), func() error {
		saves.Add(1)
		return nil
	})
	defer s.Stop()

	s.Notify()
	time.Sleep(100 * time.Millisecond)
	// Second notify before the delay elapsed restarts the timer.
	s.Notify()
	time.Sleep(100 * time.Millisecond)
	if got := saves.Load(); got != 0 {
		t.Errorf("saved %d times before the debounce settled", got)
	}

	time.Sleep(150 * time.Millisecond)
	if got := saves.Load(); got != 1 {
		t.Errorf("saves = %d, want 1 after settling", got)
	}
}

func TestFlushWritesImmediately(t *testing.T) {
	var saves atomic.Int32
	s := New(time.Hour, testLogger(), func() error {
		saves.Add(1)
		return nil
	})
	defer s.Stop()

	s.Notify()
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := saves.Load(); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
}

func TestFlushReturnsSaveError(t *testing.T) {
	boom := errors.New("disk full")
	s := New(time.Hour, testLogger(), func() error { return boom })
	defer s.Stop()

	if err := s.Flush(); !errors.Is(err, boom) {
		t.Errorf("Flush err = %v, want %v", err, boom)
	}
}

func TestStopPerformsFinalSave(t *testing.T) {
	var saves atomic.Int32
	s := New(time.Hour, testLogger(), func() error {
		saves.Add(1)
		return nil
	})

	s.Notify()
	s.Stop()

	if got := saves.Load(); got != 1 {
		t.Errorf("saves = %d, want final save on Stop", got)
	}

	// Idempotent.
	s.Stop()
	s.Notify()
	if err := s.Flush(); err != nil {
		t.Errorf("Flush after Stop: %v", err)
	}
}

func TestZeroDelayFallsBackToDefault(t *testing.T) {
	s := New(0, testLogger(), func() error { return nil })
	defer s.Stop()
	if s.delay != 2*time.Second {
		t.Errorf("delay = %v, want 2s default", s.delay)
	}
}
