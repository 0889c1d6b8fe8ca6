package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Snapshot returns the current state of a quiz for a new subscriber.
type Snapshot func() (interface{}, error)

// ServeWS subscribes the connection to quizID. The hub takes the snapshot
// once the client is registered and sends it as the first session_state
// event, so no event published after that point is lost.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, quizID int64, snapshot Snapshot) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Int64("quiz_id", quizID), zap.Error(err))
		return
	}

	client := &Client{
		hub:      h,
		quizID:   quizID,
		clientID: uuid.NewString(),
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		snapshot: snapshot,
	}

	h.register <- client
	go client.writePump()

	client.readPump()
}
