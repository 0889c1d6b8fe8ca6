package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxErrorBody = 64 * 1024

type HTTPConfig struct {
	BaseURL       string
	CSRFToken     string
	SessionCookie string
	Timeout       time.Duration
}

type HTTPKnowledgeStore struct {
	baseURL string
	csrf    string
	session string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPKnowledgeStore(cfg HTTPConfig, client *http.Client, log *zap.Logger) *HTTPKnowledgeStore {
	if log == nil {
		log = zap.NewNop()
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPKnowledgeStore{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		csrf:    cfg.CSRFToken,
		session: cfg.SessionCookie,
		client:  client,
		log:     log,
	}
}

func (s *HTTPKnowledgeStore) CreateQuestion(ctx context.Context, quizID int64, in QuestionInput) (QuestionRow, error) {
	var row QuestionRow
	path := fmt.Sprintf("/quizzes/%d/api/question/add/", quizID)
	err := s.post(ctx, "create question", path, in, &row)
	return row, err
}

func (s *HTTPKnowledgeStore) UpdateQuestion(ctx context.Context, quizID, questionID int64, in QuestionInput) (QuestionRow, error) {
	var row QuestionRow
	path := fmt.Sprintf("/quizzes/%d/api/question/%d/update/", quizID, questionID)
	err := s.post(ctx, "update question", path, in, &row)
	return row, err
}

func (s *HTTPKnowledgeStore) DeleteQuestion(ctx context.Context, quizID, questionID int64) error {
	path := fmt.Sprintf("/quizzes/%d/api/question/%d/delete/", quizID, questionID)
	return s.post(ctx, "delete question", path, struct{}{}, nil)
}

func (s *HTTPKnowledgeStore) CreateAnswer(ctx context.Context, quizID, questionID int64, in AnswerInput) (AnswerRow, error) {
	var row AnswerRow
	path := fmt.Sprintf("/quizzes/%d/api/question/%d/answer/add/", quizID, questionID)
	err := s.post(ctx, "create answer", path, in, &row)
	return row, err
}

func (s *HTTPKnowledgeStore) UpdateAnswer(ctx context.Context, quizID, answerID int64, in AnswerInput) (AnswerRow, error) {
	var row AnswerRow
	path := fmt.Sprintf("/quizzes/%d/api/answer/%d/update/", quizID, answerID)
	err := s.post(ctx, "update answer", path, in, &row)
	return row, err
}

func (s *HTTPKnowledgeStore) DeleteAnswer(ctx context.Context, quizID, answerID int64) error {
	path := fmt.Sprintf("/quizzes/%d/api/answer/%d/delete/", quizID, answerID)
	return s.post(ctx, "delete answer", path, struct{}{}, nil)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *HTTPKnowledgeStore) post(ctx context.Context, op, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &TransportFailure{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &TransportFailure{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if s.csrf != "" {
		req.Header.Set("X-CSRFToken", s.csrf)
		req.AddCookie(&http.Cookie{Name: "csrftoken", Value: s.csrf})
	}
	if s.session != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: s.session})
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("knowledge store call failed",
			zap.String("op", op),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return &TransportFailure{Op: op, Err: err}
	}
	defer resp.Body.Close()

	s.log.Debug("knowledge store call",
		zap.String("op", op),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := http.StatusText(resp.StatusCode)
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
			msg = eb.Error
		}
		s.log.Warn("knowledge store rejected",
			zap.String("op", op),
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
			zap.String("error", msg),
		)
		return &RemoteRejected{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &TransportFailure{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
