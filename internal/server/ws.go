package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler pushes the hand landmarks and pointer status of every frame
// to WebSocket clients as JSON.
type LiveHandler struct {
	feed   *Feed
	logger *zap.SugaredLogger
}

// NewLiveHandler creates a new LiveHandler reading from feed.
func NewLiveHandler(feed *Feed, logger *zap.SugaredLogger) *LiveHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LiveHandler{feed: feed, logger: logger}
}

// ServeHTTP upgrades the connection and writes live frames until the
// client disconnects.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	frames, cancel := h.feed.Subscribe()
	defer cancel()

	// Reads are only needed to notice the client closing.
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
		case lf := <-frames:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(lf); err != nil {
				h.logger.Debugw("live client dropped", "error", err)
				return
			}
		}
	}
}
