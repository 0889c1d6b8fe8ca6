package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ArtemMoroz51/QuizEditor/internal/quiz"
	"github.com/ArtemMoroz51/QuizEditor/internal/service"
	"github.com/ArtemMoroz51/QuizEditor/internal/ws"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type openSessionReq struct {
	Questions []quiz.Question `json:"questions"`
}

type questionReq struct {
	Text         string  `json:"text"`
	QuestionType *string `json:"question_type"`
}

type answerReq struct {
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct"`
}

type editorHandlers struct {
	svc service.EditorService
	hub *ws.Hub
	log *zap.Logger
}

func RegisterEditorHandlers(r chi.Router, svc service.EditorService, hub *ws.Hub, editorToken string, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &editorHandlers{svc: svc, hub: hub, log: log}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(requireEditorToken(editorToken))

		r.Route("/quizzes/{quizID}", func(r chi.Router) {
			r.Put("/session", h.openSession)
			r.Delete("/session", h.closeSession)
			r.Get("/questions", h.state)
			r.Post("/questions", h.addQuestion)
			r.Patch("/questions/{questionID}", h.updateQuestion)
			r.Delete("/questions/{questionID}", h.deleteQuestion)
			r.Post("/questions/{questionID}/answers", h.addAnswer)
			r.Patch("/answers/{answerID}", h.updateAnswer)
			r.Delete("/answers/{answerID}", h.deleteAnswer)
		})

		r.Get("/ws/{quizID}", h.serveWS)
	})
}

func (h *editorHandlers) fail(w http.ResponseWriter, op string, quizID int64, err error) {
	status := statusFor(err)
	fields := []zap.Field{zap.String("op", op), zap.Int64("quiz_id", quizID), zap.Int("status", status), zap.Error(err)}
	if status >= 500 {
		h.log.Error("editor operation failed", fields...)
	} else {
		h.log.Warn("editor operation failed", fields...)
	}
	writeError(w, status, service.UserMessage(err))
}

func (h *editorHandlers) openSession(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req openSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("open session bad json", zap.Int64("quiz_id", quizID), zap.Error(err))
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	st, err := h.svc.Open(r.Context(), quizID, req.Questions)
	if err != nil {
		h.fail(w, "open session", quizID, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *editorHandlers) closeSession(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Close(quizID); err != nil {
		h.fail(w, "close session", quizID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *editorHandlers) state(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.svc.State(quizID)
	if err != nil {
		h.fail(w, "state", quizID, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *editorHandlers) addQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req questionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("add question bad json", zap.Int64("quiz_id", quizID), zap.Error(err))
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	typ := quiz.TypeSingle
	if req.QuestionType != nil {
		if typ, err = quiz.ParseQuestionType(*req.QuestionType); err != nil {
			writeError(w, http.StatusBadRequest, service.UserMessage(err))
			return
		}
	}

	v, err := h.svc.AddQuestion(r.Context(), quizID, req.Text, typ)
	if err != nil {
		h.fail(w, "add question", quizID, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *editorHandlers) updateQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	questionID, err := pathID(r, "questionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req questionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("update question bad json", zap.Int64("question_id", questionID), zap.Error(err))
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.QuestionType == nil {
		writeError(w, http.StatusBadRequest, "question_type is required")
		return
	}
	typ, err := quiz.ParseQuestionType(*req.QuestionType)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.UserMessage(err))
		return
	}

	u, err := h.svc.UpdateQuestion(r.Context(), quizID, questionID, req.Text, typ)
	if err != nil {
		h.fail(w, "update question", quizID, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *editorHandlers) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	questionID, err := pathID(r, "questionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.DeleteQuestion(r.Context(), quizID, questionID); err != nil {
		h.fail(w, "delete question", quizID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *editorHandlers) addAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	questionID, err := pathID(r, "questionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("add answer bad json", zap.Int64("question_id", questionID), zap.Error(err))
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	isCorrect := req.IsCorrect != nil && *req.IsCorrect

	u, err := h.svc.AddAnswer(r.Context(), quizID, questionID, req.Text, isCorrect)
	if err != nil {
		h.fail(w, "add answer", quizID, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *editorHandlers) updateAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	answerID, err := pathID(r, "answerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("update answer bad json", zap.Int64("answer_id", answerID), zap.Error(err))
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.IsCorrect == nil {
		writeError(w, http.StatusBadRequest, "is_correct is required")
		return
	}

	u, err := h.svc.UpdateAnswer(r.Context(), quizID, answerID, req.Text, *req.IsCorrect)
	if err != nil {
		h.fail(w, "update answer", quizID, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *editorHandlers) deleteAnswer(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	answerID, err := pathID(r, "answerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.svc.DeleteAnswer(r.Context(), quizID, answerID)
	if err != nil {
		h.fail(w, "delete answer", quizID, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *editorHandlers) serveWS(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.svc.State(quizID); err != nil {
		h.fail(w, "subscribe", quizID, err)
		return
	}
	h.log.Info("ws subscribe attempt", zap.Int64("quiz_id", quizID))
	h.hub.ServeWS(w, r, quizID, func() (interface{}, error) {
		return h.svc.State(quizID)
	})
}
