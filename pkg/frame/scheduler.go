package frame

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the frame interval used by Run when none is given,
// roughly 60 frames per second.
const DefaultInterval = 16 * time.Millisecond

// Scheduler coalesces deferred work into turns and frames.
//
// Post queues a microtask for the end of the current turn. RequestFrame
// queues a callback for the next frame; callbacks requested while a frame
// is executing run in the following frame. Callbacks run without the
// scheduler lock held, so they may freely Post or RequestFrame.
type Scheduler struct {
	mu    sync.Mutex
	micro []func()
	frame []func()
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Post queues fn to run at the end of the current turn (FIFO).
func (s *Scheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.micro = append(s.micro, fn)
	s.mu.Unlock()
}

// RequestFrame queues fn to run exactly once at the next frame.
func (s *Scheduler) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.frame = append(s.frame, fn)
	s.mu.Unlock()
}

// Tick drains the microtask queue to quiescence: microtasks queued by
// running microtasks run in the same Tick.
func (s *Scheduler) Tick() {
	for {
		s.mu.Lock()
		batch := s.micro
		s.micro = nil
		s.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn()
		}
	}
}

// Frame runs one rendering opportunity: pending microtasks first, then
// the frame callbacks queued at that point, including ones the drained
// microtasks themselves requested, then the microtasks those callbacks
// produced. Callbacks requested while the frame callbacks run wait for
// the next frame.
func (s *Scheduler) Frame() {
	s.Tick()

	s.mu.Lock()
	batch := s.frame
	s.frame = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}

	s.Tick()
}

// Pending reports whether any microtask or frame callback is queued.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.micro) > 0 || len(s.frame) > 0
}

// Run drives Frame on a ticker until ctx is cancelled. An interval of
// zero or less uses DefaultInterval. A final Frame runs on shutdown so
// work queued just before cancellation is not silently dropped.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Frame()
			return
		case <-ticker.C:
			s.Frame()
		}
	}
}
