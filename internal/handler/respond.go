package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ArtemMoroz51/QuizEditor/internal/quiz"
	"github.com/ArtemMoroz51/QuizEditor/internal/service"
	"github.com/ArtemMoroz51/QuizEditor/internal/storage"
	"github.com/go-chi/chi/v5"
)

var errBadID = errors.New("bad id")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func statusFor(err error) int {
	var rr *storage.RemoteRejected
	switch {
	case errors.As(err, &rr):
		if rr.Status >= 500 {
			return http.StatusBadGateway
		}
		if rr.Status >= 400 {
			return rr.Status
		}
		return http.StatusBadGateway
	case storage.IsTransportFailure(err):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, quiz.ErrQuestionNotFound),
		errors.Is(err, quiz.ErrAnswerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBusy), errors.Is(err, service.ErrCreationPending):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrEmptyText),
		errors.Is(err, quiz.ErrUnknownType),
		errors.Is(err, quiz.ErrDuplicateQuestion),
		errors.Is(err, quiz.ErrDuplicateAnswer),
		errors.Is(err, service.ErrInvalidQuizID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
