package service

import (
	"sync"

	"github.com/ArtemMoroz51/QuizEditor/internal/storage"
	"go.uber.org/zap"
)

type SessionManager struct {
	store storage.KnowledgeStore
	log   *zap.Logger

	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessionManager(store storage.KnowledgeStore, log *zap.Logger) *SessionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{
		store:    store,
		log:      log,
		sessions: make(map[int64]*Session),
	}
}

// Open returns the session of a quiz, creating an empty one on first use.
func (m *SessionManager) Open(quizID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[quizID]; ok {
		return s
	}
	s := NewSession(quizID, m.store, m.log)
	m.sessions[quizID] = s
	return s
}

func (m *SessionManager) Get(quizID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[quizID]
	return s, ok
}

func (m *SessionManager) Close(quizID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[quizID]; !ok {
		return false
	}
	delete(m.sessions, quizID)
	return true
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
