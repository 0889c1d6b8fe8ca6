package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub fans editor events out to every editor subscribed to the same quiz.
type Hub struct {
	log *zap.Logger

	mu            sync.RWMutex
	clientsByQuiz map[int64]map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan quizMessage
}

type quizMessage struct {
	quizID   int64
	clientID string
	data     []byte
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		log:           log,
		clientsByQuiz: make(map[int64]map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan quizMessage, 256),
	}
	go h.run()
	return h
}

// Publish satisfies service.Publisher.
func (h *Hub) Publish(quizID int64, eventType string, payload interface{}) {
	h.Broadcast(quizID, Envelope{Type: eventType, QuizID: quizID, Payload: payload})
}

func (h *Hub) Broadcast(quizID int64, env Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		h.log.Error("ws broadcast marshal failed", zap.String("type", env.Type), zap.Error(err))
		return
	}
	h.broadcast <- quizMessage{quizID: quizID, data: b}
}

// sendTo delivers env to one client. Sends go through run so that only the
// hub goroutine writes to or closes a client's channel.
func (h *Hub) sendTo(c *Client, env Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		h.log.Error("ws send marshal failed", zap.String("client_id", c.clientID), zap.Error(err))
		return
	}
	h.broadcast <- quizMessage{quizID: c.quizID, clientID: c.clientID, data: b}
}

func (h *Hub) Subscribers(quizID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clientsByQuiz[quizID])
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if _, ok := h.clientsByQuiz[c.quizID]; !ok {
				h.clientsByQuiz[c.quizID] = make(map[string]*Client)
			}
			h.clientsByQuiz[c.quizID][c.clientID] = c
			h.mu.Unlock()

			h.log.Info("ws editor subscribed",
				zap.Int64("quiz_id", c.quizID),
				zap.String("client_id", c.clientID),
			)
			h.sendSnapshot(c)

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			var slow []*Client
			h.mu.RLock()
			for id, c := range h.clientsByQuiz[msg.quizID] {
				if msg.clientID != "" && msg.clientID != id {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()

			for _, c := range slow {
				h.drop(c)
			}
		}
	}
}

// sendSnapshot runs on the hub goroutine right after registration: any
// broadcast handled later is delivered after the snapshot.
func (h *Hub) sendSnapshot(c *Client) {
	if c.snapshot == nil {
		return
	}
	state, err := c.snapshot()
	if err != nil {
		h.log.Warn("ws snapshot failed", zap.Int64("quiz_id", c.quizID), zap.String("client_id", c.clientID), zap.Error(err))
		h.drop(c)
		return
	}
	b, err := json.Marshal(Envelope{Type: "session_state", QuizID: c.quizID, Payload: state})
	if err != nil {
		h.log.Error("ws state marshal failed", zap.Int64("quiz_id", c.quizID), zap.Error(err))
		h.drop(c)
		return
	}
	select {
	case c.send <- b:
	default:
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	clients, ok := h.clientsByQuiz[c.quizID]
	if ok {
		if _, exists := clients[c.clientID]; exists {
			delete(clients, c.clientID)
			close(c.send)
		}
		if len(clients) == 0 {
			delete(h.clientsByQuiz, c.quizID)
		}
	}
	h.mu.Unlock()

	h.log.Info("ws editor unsubscribed",
		zap.Int64("quiz_id", c.quizID),
		zap.String("client_id", c.clientID),
	)
}
