package service

import (
	"context"

	"github.com/ArtemMoroz51/QuizEditor/internal/quiz"
	"go.uber.org/zap"
)

const (
	EventQuestionAdded   = "question_added"
	EventQuestionSaved   = "question_saved"
	EventQuestionDeleted = "question_deleted"
	EventAnswerAdded     = "answer_added"
	EventAnswerSaved     = "answer_saved"
	EventAnswerDeleted   = "answer_deleted"
	EventSessionState    = "session_state"
	EventSessionClosed   = "session_closed"
)

// Publisher pushes completed operations to whoever renders the quiz.
type Publisher interface {
	Publish(quizID int64, eventType string, payload interface{})
}

type EditorService interface {
	Open(ctx context.Context, quizID int64, seed []quiz.Question) (State, error)
	State(quizID int64) (State, error)
	Close(quizID int64) error

	AddQuestion(ctx context.Context, quizID int64, text string, typ quiz.QuestionType) (QuestionView, error)
	UpdateQuestion(ctx context.Context, quizID, questionID int64, text string, typ quiz.QuestionType) (QuestionUpdate, error)
	DeleteQuestion(ctx context.Context, quizID, questionID int64) error

	AddAnswer(ctx context.Context, quizID, questionID int64, text string, isCorrect bool) (AnswerUpdate, error)
	UpdateAnswer(ctx context.Context, quizID, answerID int64, text string, isCorrect bool) (AnswerUpdate, error)
	DeleteAnswer(ctx context.Context, quizID, answerID int64) (AnswerUpdate, error)
}

type editorService struct {
	sm  *SessionManager
	pub Publisher
	log *zap.Logger
}

func NewEditorService(sm *SessionManager, pub Publisher, log *zap.Logger) EditorService {
	if log == nil {
		log = zap.NewNop()
	}
	return &editorService{sm: sm, pub: pub, log: log}
}

func (e *editorService) Open(ctx context.Context, quizID int64, seed []quiz.Question) (State, error) {
	if quizID <= 0 {
		return State{}, ErrInvalidQuizID
	}
	s := e.sm.Open(quizID)
	demoted, err := s.Load(ctx, seed)
	if err != nil {
		return State{}, err
	}

	st := s.State()
	e.log.Info("session opened",
		zap.Int64("quiz_id", quizID),
		zap.Int("questions", len(st.Questions)),
		zap.Int("demoted", len(demoted)),
	)
	e.publish(quizID, EventSessionState, st)
	return st, nil
}

func (e *editorService) State(quizID int64) (State, error) {
	s, ok := e.sm.Get(quizID)
	if !ok {
		return State{}, ErrSessionNotFound
	}
	return s.State(), nil
}

// Close drops the local state of a quiz. Operations already running finish
// on the detached session; later ones get ErrSessionNotFound.
func (e *editorService) Close(quizID int64) error {
	if !e.sm.Close(quizID) {
		return ErrSessionNotFound
	}
	e.log.Info("session closed", zap.Int64("quiz_id", quizID), zap.Int("open_sessions", e.sm.Len()))
	e.publish(quizID, EventSessionClosed, map[string]int64{"quiz_id": quizID})
	return nil
}

func (e *editorService) AddQuestion(ctx context.Context, quizID int64, text string, typ quiz.QuestionType) (QuestionView, error) {
	s, ok := e.sm.Get(quizID)
	if !ok {
		return QuestionView{}, ErrSessionNotFound
	}
	v, err := s.AddQuestion(ctx, text, typ)
	if err != nil {
		return QuestionView{}, err
	}
	e.publish(quizID, EventQuestionAdded, v)
	return v, nil
}

func (e *editorService) UpdateQuestion(ctx context.Context, quizID, questionID int64, text string, typ quiz.QuestionType) (QuestionUpdate, error) {
	s, ok := e.sm.Get(quizID)
	if !ok {
		return QuestionUpdate{}, ErrSessionNotFound
	}
	u, err := s.UpdateQuestion(ctx, questionID, text, typ)
	if err != nil {
		return QuestionUpdate{}, err
	}
	e.publish(quizID, EventQuestionSaved, u)
	return u, nil
}

func (e *editorService) DeleteQuestion(ctx context.Context, quizID, questionID int64) error {
	s, ok := e.sm.Get(quizID)
	if !ok {
		return ErrSessionNotFound
	}
	if err := s.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}
	e.publish(quizID, EventQuestionDeleted, map[string]int64{"id": questionID})
	return nil
}

func (e *editorService) AddAnswer(ctx context.Context, quizID, questionID int64, text string, isCorrect bool) (AnswerUpdate, error) {
	s, ok := e.sm.Get(quizID)
	if !ok {
		return AnswerUpdate{}, ErrSessionNotFound
	}
	u, err := s.AddAnswer(ctx, questionID, text, isCorrect)
	if err != nil {
		return AnswerUpdate{}, err
	}
	e.publish(quizID, EventAnswerAdded, u)
	return u, nil
}

func (e *editorService) UpdateAnswer(ctx context.Context, quizID, answerID int64, text string, isCorrect bool) (AnswerUpdate, error) {
	s, ok := e.sm.Get(quizID)
	if !ok {
		return AnswerUpdate{}, ErrSessionNotFound
	}
	u, err := s.UpdateAnswer(ctx, answerID, text, isCorrect)
	if err != nil {
		return AnswerUpdate{}, err
	}
	e.publish(quizID, EventAnswerSaved, u)
	return u, nil
}

func (e *editorService) DeleteAnswer(ctx context.Context, quizID, answerID int64) (AnswerUpdate, error) {
	s, ok := e.sm.Get(quizID)
	if !ok {
		return AnswerUpdate{}, ErrSessionNotFound
	}
	u, err := s.DeleteAnswer(ctx, answerID)
	if err != nil {
		return AnswerUpdate{}, err
	}
	e.publish(quizID, EventAnswerDeleted, u)
	return u, nil
}

func (e *editorService) publish(quizID int64, eventType string, payload interface{}) {
	if e.pub == nil {
		return
	}
	e.pub.Publish(quizID, eventType, payload)
}
