// Package buttons turns key presses from any input source into compositor
// events.
package buttons

import (
	"context"
	"sync"
)

type Event string

const (
	RingMore         Event = "ring-more"
	RingLess         Event = "ring-less"
	ScaleUp          Event = "scale-up"
	ScaleDown        Event = "scale-down"
	OffsetUp         Event = "offset-up"
	OffsetDown       Event = "offset-down"
	BorderUp         Event = "border-up"
	BorderDown       Event = "border-down"
	ShadowUp         Event = "shadow-up"
	ShadowDown       Event = "shadow-down"
	ToggleTangent    Event = "toggle-tangent"
	ToggleBackground Event = "toggle-background"
	ToggleWatermark  Event = "toggle-watermark"
	ToggleStamp      Event = "toggle-stamp"
	Reset            Event = "reset"
	Export           Event = "export"
	Exit             Event = "exit"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { close(n.ch); return nil }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

// Queue is a Buttons fed by Press. Presses beyond the buffer are dropped so
// an input reader never blocks on a busy consumer.
type Queue struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 16
	}
	return &Queue{ch: make(chan Event, size)}
}

func (q *Queue) Start(ctx context.Context) error { return nil }

func (q *Queue) Stop() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}

func (q *Queue) Events() <-chan Event { return q.ch }

// Press enqueues e and reports whether it was accepted.
func (q *Queue) Press(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- e:
		return true
	default:
		return false
	}
}

// Bind returns a map of key code to press func, for input readers that
// dispatch by code.
func (q *Queue) Bind(keys map[uint16]Event) map[uint16]func() {
	handlers := make(map[uint16]func(), len(keys))
	for code, e := range keys {
		handlers[code] = func() { q.Press(e) }
	}
	return handlers
}
