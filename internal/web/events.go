package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	eventWriteTimeout = 5 * time.Second
	eventBuffer       = 16
)

type renderEvent struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq"`
}

// eventsHandler upgrades to a websocket and pushes one message per finished
// render. Slow clients drop events rather than stall the render loop.
type eventsHandler struct {
	compositor Compositor
	logger     logger
	upgrader   websocket.Upgrader
}

func newEventsHandler(c Compositor, l logger) *eventsHandler {
	return &eventsHandler{compositor: c, logger: l}
}

func (h *eventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("web", "events upgrade: %v", err)
		}
		return
	}
	defer conn.Close()

	events := make(chan uint64, eventBuffer)
	cancel := h.compositor.OnRender(func(seq uint64) {
		select {
		case events <- seq:
		default:
		}
	})
	defer cancel()

	// The reader only exists to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case seq := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteJSON(renderEvent{Type: "rendered", Seq: seq}); err != nil {
				return
			}
		}
	}
}
