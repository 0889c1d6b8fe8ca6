package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Client struct {
	hub      *Hub
	quizID   int64
	clientID string
	conn     *websocket.Conn
	send     chan []byte
	snapshot Snapshot
}

// readPump only keeps the connection alive; editing goes through the JSON API.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()

		c.hub.log.Info("ws connection closed",
			zap.Int64("quiz_id", c.quizID),
			zap.String("client_id", c.clientID),
		)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg clientMsg
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("ws read failed",
					zap.Int64("quiz_id", c.quizID),
					zap.String("client_id", c.clientID),
					zap.Error(err),
				)
			}
			break
		}

		switch msg.Type {
		case "ping":
			c.hub.sendTo(c, Envelope{Type: "pong", QuizID: c.quizID, Payload: map[string]string{"clientId": c.clientID}})
		default:
			c.hub.log.Warn("unknown ws message type",
				zap.Int64("quiz_id", c.quizID),
				zap.String("client_id", c.clientID),
				zap.String("type", msg.Type),
			)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Warn("ws write failed",
					zap.Int64("quiz_id", c.quizID),
					zap.String("client_id", c.clientID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.log.Warn("ws ping failed",
					zap.Int64("quiz_id", c.quizID),
					zap.String("client_id", c.clientID),
					zap.Error(err),
				)
				return
			}
		}
	}
}
