package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is a stand-in for the parameter store: renders record the value
// current at fire time.
type counter struct {
	mu    sync.Mutex
	value int
	seen  []int
}

func (c *counter) set(v int) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

func (c *counter) render() {
	c.mu.Lock()
	c.seen = append(c.seen, c.value)
	c.mu.Unlock()
}

func TestScheduleCoalescesWithinFrame(t *testing.T) {
	var frames FrameQueue
	c := &counter{}
	s := NewScheduler(&frames, c.render)

	for i := 1; i <= 50; i++ {
		c.set(i)
		s.Schedule()
	}
	assert.True(t, s.Pending())
	assert.Equal(t, 1, frames.Queued(), "exactly one frame callback registered")

	assert.Equal(t, 1, frames.RunFrame())
	assert.Equal(t, []int{50}, c.seen, "renders the value current at fire time")
	assert.False(t, s.Pending())
}

func TestScheduleUsesFireTimeState(t *testing.T) {
	var frames FrameQueue
	c := &counter{}
	s := NewScheduler(&frames, c.render)

	c.set(1)
	s.Schedule()
	c.set(2)
	frames.RunFrame()
	assert.Equal(t, []int{2}, c.seen)
}

func TestScheduleAgainAfterFrame(t *testing.T) {
	var frames FrameQueue
	c := &counter{}
	s := NewScheduler(&frames, c.render)

	s.Schedule()
	frames.RunFrame()
	s.Schedule()
	s.Schedule()
	frames.RunFrame()
	assert.Len(t, c.seen, 2)
	assert.Equal(t, 0, frames.RunFrame(), "nothing left to run")
}

func TestNoFrameNoRender(t *testing.T) {
	var frames FrameQueue
	c := &counter{}
	s := NewScheduler(&frames, c.render)
	s.Schedule()
	assert.Empty(t, c.seen)
}

func TestForceRenderIsSynchronous(t *testing.T) {
	var frames FrameQueue
	c := &counter{}
	s := NewScheduler(&frames, c.render)

	c.set(7)
	s.ForceRender()
	require.Equal(t, []int{7}, c.seen)
	assert.False(t, s.Pending())
	assert.Equal(t, 0, frames.Queued())
}

func TestForceRenderLeavesPendingFrame(t *testing.T) {
	var frames FrameQueue
	c := &counter{}
	s := NewScheduler(&frames, c.render)

	s.Schedule()
	s.ForceRender()
	assert.True(t, s.Pending())
	frames.RunFrame()
	assert.Len(t, c.seen, 2)
	assert.False(t, s.Pending())
}

func TestScheduleDuringRenderRequestsNextFrame(t *testing.T) {
	var frames FrameQueue
	var s *Scheduler
	renders := 0
	s = NewScheduler(&frames, func() {
		renders++
		if renders == 1 {
			s.Schedule()
		}
	})
	s.Schedule()
	frames.RunFrame()
	assert.Equal(t, 1, renders)
	assert.True(t, s.Pending())
	frames.RunFrame()
	assert.Equal(t, 2, renders)
}

func TestConcurrentScheduleSingleCallback(t *testing.T) {
	var frames FrameQueue
	var renders atomic.Int32
	s := NewScheduler(&frames, func() { renders.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Schedule()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, frames.Queued())
	frames.RunFrame()
	assert.Equal(t, int32(1), renders.Load())
}

func TestTickerDriverRunsFrames(t *testing.T) {
	driver := NewTickerDriver(200)
	done := make(chan struct{})
	s := NewScheduler(driver, func() { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go driver.Run(ctx)

	s.Schedule()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled render never fired")
	}
}

func TestTickerDriverFlushesOnStop(t *testing.T) {
	driver := NewTickerDriver(1)
	ran := false
	driver.RequestFrame(func() { ran = true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	driver.Run(ctx)
	assert.True(t, ran)
}

func TestFrameQueueIgnoresNil(t *testing.T) {
	var frames FrameQueue
	frames.RequestFrame(nil)
	assert.Equal(t, 0, frames.Queued())
}
