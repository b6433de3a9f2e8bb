package schedule

import "sync"

// FrameDriver is the host's per-frame hook. RequestFrame registers a callback
// that runs once on the next display refresh.
type FrameDriver interface {
	RequestFrame(callback func())
}

// Scheduler coalesces render requests into at most one render per frame.
type Scheduler struct {
	driver FrameDriver
	render func()

	mu      sync.Mutex
	pending bool
}

func NewScheduler(driver FrameDriver, render func()) *Scheduler {
	return &Scheduler{driver: driver, render: render}
}

// Schedule requests a render on the next frame. Calls made while a frame is
// already pending are no-ops; the render reads whatever state is current when
// the frame fires.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()
	s.driver.RequestFrame(s.fire)
}

// ForceRender renders synchronously. It neither reads nor clears the pending
// flag, so an already scheduled frame still fires.
func (s *Scheduler) ForceRender() {
	s.render()
}

// Pending reports whether a frame has been requested and not yet fired.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Scheduler) fire() {
	// Cleared before rendering so a mutation that lands mid-render requests a
	// fresh frame instead of being swallowed.
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
	s.render()
}
