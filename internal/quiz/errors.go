package quiz

import "errors"

var (
	ErrUnknownType       = errors.New("unknown question type")
	ErrEmptyText         = errors.New("empty text")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrAnswerNotFound    = errors.New("answer not found")
	ErrDuplicateQuestion = errors.New("duplicate question id")
	ErrDuplicateAnswer   = errors.New("duplicate answer id")
)
