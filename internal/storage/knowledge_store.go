package storage

import (
	"context"

	"github.com/ArtemMoroz51/QuizEditor/internal/quiz"
)

type QuestionRow struct {
	ID           int64             `json:"id"`
	Text         string            `json:"text"`
	QuestionType quiz.QuestionType `json:"question_type"`
}

type AnswerRow struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	Text         string            `json:"text"`
	QuestionType quiz.QuestionType `json:"question_type"`
}

type AnswerInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// KnowledgeStore is the remote service that owns validation, persistence
// and authorization of quiz content. One call per operation, never retried.
type KnowledgeStore interface {
	CreateQuestion(ctx context.Context, quizID int64, in QuestionInput) (QuestionRow, error)
	UpdateQuestion(ctx context.Context, quizID, questionID int64, in QuestionInput) (QuestionRow, error)
	DeleteQuestion(ctx context.Context, quizID, questionID int64) error

	CreateAnswer(ctx context.Context, quizID, questionID int64, in AnswerInput) (AnswerRow, error)
	UpdateAnswer(ctx context.Context, quizID, answerID int64, in AnswerInput) (AnswerRow, error)
	DeleteAnswer(ctx context.Context, quizID, answerID int64) error
}
