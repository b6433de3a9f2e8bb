package schedule

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshRate is the frame rate of TickerDriver when none is given.
const DefaultRefreshRate = 60

// FrameQueue collects frame callbacks until the host runs a frame. Hosts with
// their own refresh loop (a window, a test) call RunFrame from that loop.
type FrameQueue struct {
	mu        sync.Mutex
	callbacks []func()
}

func (q *FrameQueue) RequestFrame(callback func()) {
	if callback == nil {
		return
	}
	q.mu.Lock()
	q.callbacks = append(q.callbacks, callback)
	q.mu.Unlock()
}

// RunFrame runs the callbacks queued before the call and returns how many ran.
// Callbacks requested while the frame runs wait for the next frame.
func (q *FrameQueue) RunFrame() int {
	q.mu.Lock()
	batch := q.callbacks
	q.callbacks = nil
	q.mu.Unlock()
	for _, cb := range batch {
		cb()
	}
	return len(batch)
}

// Queued returns the number of callbacks waiting for the next frame.
func (q *FrameQueue) Queued() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.callbacks)
}

// TickerDriver runs a FrameQueue on a fixed refresh rate for headless hosts.
type TickerDriver struct {
	FrameQueue
	interval time.Duration
}

func NewTickerDriver(rate int) *TickerDriver {
	if rate <= 0 {
		rate = DefaultRefreshRate
	}
	return &TickerDriver{interval: time.Second / time.Duration(rate)}
}

// Run drives frames until ctx is done. Callbacks still queued at that point
// are flushed so a scheduled render always executes.
func (d *TickerDriver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.RunFrame()
			return
		case <-ticker.C:
			d.RunFrame()
		}
	}
}
