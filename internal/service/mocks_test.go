package service

import (
	"context"
	"sync"

	"github.com/ArtemMoroz51/QuizEditor/internal/storage"
	"github.com/stretchr/testify/mock"
)

type mockKnowledgeStore struct {
	mock.Mock
}

func (m *mockKnowledgeStore) CreateQuestion(ctx context.Context, quizID int64, in storage.QuestionInput) (storage.QuestionRow, error) {
	args := m.Called(ctx, quizID, in)
	row, _ := args.Get(0).(storage.QuestionRow)
	return row, args.Error(1)
}

func (m *mockKnowledgeStore) UpdateQuestion(ctx context.Context, quizID, questionID int64, in storage.QuestionInput) (storage.QuestionRow, error) {
	args := m.Called(ctx, quizID, questionID, in)
	row, _ := args.Get(0).(storage.QuestionRow)
	return row, args.Error(1)
}

func (m *mockKnowledgeStore) DeleteQuestion(ctx context.Context, quizID, questionID int64) error {
	args := m.Called(ctx, quizID, questionID)
	return args.Error(0)
}

func (m *mockKnowledgeStore) CreateAnswer(ctx context.Context, quizID, questionID int64, in storage.AnswerInput) (storage.AnswerRow, error) {
	args := m.Called(ctx, quizID, questionID, in)
	row, _ := args.Get(0).(storage.AnswerRow)
	return row, args.Error(1)
}

func (m *mockKnowledgeStore) UpdateAnswer(ctx context.Context, quizID, answerID int64, in storage.AnswerInput) (storage.AnswerRow, error) {
	args := m.Called(ctx, quizID, answerID, in)
	row, _ := args.Get(0).(storage.AnswerRow)
	return row, args.Error(1)
}

func (m *mockKnowledgeStore) DeleteAnswer(ctx context.Context, quizID, answerID int64) error {
	args := m.Called(ctx, quizID, answerID)
	return args.Error(0)
}

type publishedEvent struct {
	quizID    int64
	eventType string
	payload   interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(quizID int64, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{quizID: quizID, eventType: eventType, payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.eventType)
	}
	return out
}
