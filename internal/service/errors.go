package service

import (
	"errors"

	"github.com/ArtemMoroz51/QuizEditor/internal/quiz"
	"github.com/ArtemMoroz51/QuizEditor/internal/storage"
)

var (
	ErrBusy            = errors.New("operation already in progress")
	ErrCreationPending = errors.New("question creation already in progress")
	ErrSessionNotFound = errors.New("editing session not found")
	ErrInvalidQuizID   = errors.New("invalid quiz id")
)

// UserMessage turns any operation failure into text fit for a toast.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var rr *storage.RemoteRejected
	if errors.As(err, &rr) && rr.Message != "" {
		return rr.Message
	}

	switch {
	case storage.IsTransportFailure(err):
		return "knowledge store is unavailable, try again"
	case errors.Is(err, ErrBusy):
		return "previous save is still in progress"
	case errors.Is(err, ErrCreationPending):
		return "a question is already being added"
	case errors.Is(err, ErrSessionNotFound):
		return "quiz is not open for editing"
	case errors.Is(err, quiz.ErrEmptyText):
		return "text must not be empty"
	case errors.Is(err, quiz.ErrUnknownType):
		return "unknown question type"
	case errors.Is(err, quiz.ErrQuestionNotFound):
		return "question not found"
	case errors.Is(err, quiz.ErrAnswerNotFound):
		return "answer not found"
	}
	return "operation failed"
}
