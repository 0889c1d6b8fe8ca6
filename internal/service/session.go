package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ArtemMoroz51/QuizEditor/internal/quiz"
	"github.com/ArtemMoroz51/QuizEditor/internal/storage"
	"go.uber.org/zap"
)

const (
	DefaultQuestionText = "New question"
	DefaultAnswerText   = "New answer"
)

type QuestionView struct {
	quiz.Question
	Number int                 `json:"number"`
	Render []quiz.RenderAnswer `json:"render"`
}

type State struct {
	QuizID    int64          `json:"quiz_id"`
	Questions []QuestionView `json:"questions"`
}

type QuestionUpdate struct {
	Question     QuestionView `json:"question"`
	Transitioned bool         `json:"transitioned"`
	Demoted      []int64      `json:"demoted,omitempty"`
}

type AnswerUpdate struct {
	QuestionID int64               `json:"question_id"`
	Answer     quiz.Answer         `json:"answer"`
	Demoted    []int64             `json:"demoted,omitempty"`
	Render     []quiz.RenderAnswer `json:"render"`
}

type PendingCreation struct {
	Text  string
	Type  quiz.QuestionType
	Since time.Time
}

// Session is the edit controller of one quiz. Operations run one at a
// time; the local state changes only after the Knowledge Store confirmed.
type Session struct {
	quizID  int64
	store   storage.KnowledgeStore
	log     *zap.Logger
	answers *quiz.AnswerStore

	opMu sync.Mutex

	mu       sync.Mutex
	inFlight map[string]struct{}
	pending  *PendingCreation
}

func NewSession(quizID int64, store storage.KnowledgeStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		quizID:   quizID,
		store:    store,
		log:      log.With(zap.Int64("quiz_id", quizID)),
		answers:  quiz.NewAnswerStore(),
		inFlight: make(map[string]struct{}),
	}
}

func (s *Session) QuizID() int64 { return s.quizID }

// Load replaces the local state with what the store currently holds. A
// single question seeded with several correct answers keeps the first one;
// the others are demoted and the demotions sent to the store.
func (s *Session) Load(ctx context.Context, seed []quiz.Question) ([]int64, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.answers.Load(seed); err != nil {
		return nil, err
	}

	var demoted []quiz.Answer
	for _, q := range s.answers.Questions() {
		if q.Consistent() {
			continue
		}
		answers, changed := quiz.Enforce(q)
		q.Answers = answers
		for _, id := range changed {
			demoted = append(demoted, q.Answers[q.AnswerIndex(id)])
		}
		s.answers.Put(q)
	}

	ids := s.persistDemotions(ctx, demoted)
	if len(ids) > 0 {
		s.log.Info("seeded answers demoted", zap.Int64s("answer_ids", ids))
	}
	return ids, nil
}

func (s *Session) State() State {
	qs := s.answers.Questions()
	out := State{QuizID: s.quizID, Questions: make([]QuestionView, 0, len(qs))}
	for i, q := range qs {
		out.Questions = append(out.Questions, QuestionView{Question: q, Number: i + 1, Render: q.Render()})
	}
	return out
}

func (s *Session) Question(id int64) (quiz.Question, bool) {
	return s.answers.Question(id)
}

func (s *Session) Pending() (PendingCreation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingCreation{}, false
	}
	return *s.pending, true
}

func (s *Session) AddQuestion(ctx context.Context, text string, typ quiz.QuestionType) (QuestionView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = DefaultQuestionText
	}
	if typ == "" {
		typ = quiz.TypeSingle
	}
	if !typ.Valid() {
		return QuestionView{}, quiz.ErrUnknownType
	}

	if err := s.beginCreate(text, typ); err != nil {
		return QuestionView{}, err
	}
	defer s.endCreate()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	row, err := s.store.CreateQuestion(detach(ctx), s.quizID, storage.QuestionInput{Text: text, QuestionType: typ})
	if err != nil {
		s.log.Warn("add question failed", zap.Error(err))
		return QuestionView{}, err
	}
	if _, taken := s.answers.Question(row.ID); row.ID <= 0 || taken {
		err := &storage.TransportFailure{Op: "create question", Err: fmt.Errorf("unusable question id %d", row.ID)}
		s.log.Error("add question failed", zap.Error(err))
		return QuestionView{}, err
	}

	confirmed := row.QuestionType
	if !confirmed.Valid() {
		confirmed = typ
	}
	q := quiz.Question{ID: row.ID, Text: row.Text, Type: confirmed, Answers: []quiz.Answer{}}
	s.answers.Put(q)

	s.log.Info("question added", zap.Int64("question_id", q.ID), zap.String("type", string(q.Type)))
	return s.view(q), nil
}

func (s *Session) UpdateQuestion(ctx context.Context, id int64, text string, typ quiz.QuestionType) (QuestionUpdate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return QuestionUpdate{}, quiz.ErrEmptyText
	}
	if !typ.Valid() {
		return QuestionUpdate{}, quiz.ErrUnknownType
	}

	key := fmt.Sprintf("question:%d", id)
	if err := s.begin(key); err != nil {
		return QuestionUpdate{}, err
	}
	defer s.end(key)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	prior, ok := s.answers.Question(id)
	if !ok {
		return QuestionUpdate{}, quiz.ErrQuestionNotFound
	}
	if prior.Text == text && prior.Type == typ {
		return QuestionUpdate{Question: s.view(prior)}, nil
	}

	row, err := s.store.UpdateQuestion(detach(ctx), s.quizID, id, storage.QuestionInput{Text: text, QuestionType: typ})
	if err != nil {
		s.log.Warn("update question failed", zap.Int64("question_id", id), zap.Error(err))
		return QuestionUpdate{}, err
	}

	confirmed := row.QuestionType
	if !confirmed.Valid() {
		confirmed = typ
	}
	res, err := quiz.Transition(prior, confirmed)
	if err != nil {
		return QuestionUpdate{}, err
	}
	next := res.Question
	next.Text = row.Text
	s.answers.Put(next)

	demoted := s.persistDemotions(ctx, res.Demoted)

	if res.Changed() {
		s.log.Info("question type changed",
			zap.Int64("question_id", id),
			zap.String("from", string(res.From)),
			zap.String("to", string(res.To)),
			zap.Int("demoted", len(demoted)),
		)
	}
	return QuestionUpdate{Question: s.view(next), Transitioned: res.Changed(), Demoted: demoted}, nil
}

func (s *Session) DeleteQuestion(ctx context.Context, id int64) error {
	key := fmt.Sprintf("question:%d", id)
	if err := s.begin(key); err != nil {
		return err
	}
	defer s.end(key)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if _, ok := s.answers.Question(id); !ok {
		return quiz.ErrQuestionNotFound
	}
	if err := s.store.DeleteQuestion(detach(ctx), s.quizID, id); err != nil {
		s.log.Warn("delete question failed", zap.Int64("question_id", id), zap.Error(err))
		return err
	}
	s.answers.Remove(id)

	s.log.Info("question deleted", zap.Int64("question_id", id))
	return nil
}

// AddAnswer appends an answer. A correct answer added to a single question
// takes the flag from any previous holder, the same way an explicit edit does.
func (s *Session) AddAnswer(ctx context.Context, questionID int64, text string, isCorrect bool) (AnswerUpdate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = DefaultAnswerText
	}

	key := fmt.Sprintf("question:%d:answers", questionID)
	if err := s.begin(key); err != nil {
		return AnswerUpdate{}, err
	}
	defer s.end(key)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	q, ok := s.answers.Question(questionID)
	if !ok {
		return AnswerUpdate{}, quiz.ErrQuestionNotFound
	}

	row, err := s.store.CreateAnswer(detach(ctx), s.quizID, questionID, storage.AnswerInput{Text: text, IsCorrect: isCorrect})
	if err != nil {
		s.log.Warn("add answer failed", zap.Int64("question_id", questionID), zap.Error(err))
		return AnswerUpdate{}, err
	}
	if _, taken := s.answers.OwnerOf(row.ID); row.ID <= 0 || taken {
		err := &storage.TransportFailure{Op: "create answer", Err: fmt.Errorf("unusable answer id %d", row.ID)}
		s.log.Error("add answer failed", zap.Int64("question_id", questionID), zap.Error(err))
		return AnswerUpdate{}, err
	}

	a := quiz.Answer{ID: row.ID, Text: row.Text, IsCorrect: row.IsCorrect}
	q.Answers = append(q.Answers, a)
	return s.commitAnswer(ctx, q, a), nil
}

// UpdateAnswer saves one answer. Marking it correct on a single question
// demotes the previous holder: the user's explicit choice wins over order.
func (s *Session) UpdateAnswer(ctx context.Context, answerID int64, text string, isCorrect bool) (AnswerUpdate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return AnswerUpdate{}, quiz.ErrEmptyText
	}

	key := fmt.Sprintf("answer:%d", answerID)
	if err := s.begin(key); err != nil {
		return AnswerUpdate{}, err
	}
	defer s.end(key)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	q, ok := s.answers.OwnerOf(answerID)
	if !ok {
		return AnswerUpdate{}, quiz.ErrAnswerNotFound
	}
	idx := q.AnswerIndex(answerID)
	prior := q.Answers[idx]
	if prior.Text == text && prior.IsCorrect == isCorrect && q.Consistent() {
		return AnswerUpdate{QuestionID: q.ID, Answer: prior, Render: q.Render()}, nil
	}

	row, err := s.store.UpdateAnswer(detach(ctx), s.quizID, answerID, storage.AnswerInput{Text: text, IsCorrect: isCorrect})
	if err != nil {
		s.log.Warn("update answer failed", zap.Int64("answer_id", answerID), zap.Error(err))
		return AnswerUpdate{}, err
	}

	a := quiz.Answer{ID: answerID, Text: row.Text, IsCorrect: row.IsCorrect}
	q.Answers[idx] = a
	return s.commitAnswer(ctx, q, a), nil
}

func (s *Session) DeleteAnswer(ctx context.Context, answerID int64) (AnswerUpdate, error) {
	key := fmt.Sprintf("answer:%d", answerID)
	if err := s.begin(key); err != nil {
		return AnswerUpdate{}, err
	}
	defer s.end(key)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	q, ok := s.answers.OwnerOf(answerID)
	if !ok {
		return AnswerUpdate{}, quiz.ErrAnswerNotFound
	}
	if err := s.store.DeleteAnswer(detach(ctx), s.quizID, answerID); err != nil {
		s.log.Warn("delete answer failed", zap.Int64("answer_id", answerID), zap.Error(err))
		return AnswerUpdate{}, err
	}

	idx := q.AnswerIndex(answerID)
	removed := q.Answers[idx]
	q.Answers = append(q.Answers[:idx], q.Answers[idx+1:]...)
	s.answers.Put(q)

	s.log.Info("answer deleted", zap.Int64("question_id", q.ID), zap.Int64("answer_id", answerID))
	return AnswerUpdate{QuestionID: q.ID, Answer: removed, Render: q.Render()}, nil
}

// commitAnswer stores q after a confirmed answer write, enforcing the
// single-answer rule in favour of a.
func (s *Session) commitAnswer(ctx context.Context, q quiz.Question, a quiz.Answer) AnswerUpdate {
	var demoted []quiz.Answer
	if a.IsCorrect {
		answers, changed := quiz.EnforceChoice(q, a.ID)
		q.Answers = answers
		for _, id := range changed {
			demoted = append(demoted, q.Answers[q.AnswerIndex(id)])
		}
	}
	s.answers.Put(q)

	ids := s.persistDemotions(ctx, demoted)
	s.log.Info("answer saved",
		zap.Int64("question_id", q.ID),
		zap.Int64("answer_id", a.ID),
		zap.Bool("correct", a.IsCorrect),
		zap.Int("demoted", len(ids)),
	)
	return AnswerUpdate{QuestionID: q.ID, Answer: a, Demoted: ids, Render: q.Render()}
}

// persistDemotions writes cleared flags to the store. Failures are logged
// only; the next explicit save of that answer repairs the store.
func (s *Session) persistDemotions(ctx context.Context, demoted []quiz.Answer) []int64 {
	if len(demoted) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(demoted))
	for _, a := range demoted {
		ids = append(ids, a.ID)
		_, err := s.store.UpdateAnswer(detach(ctx), s.quizID, a.ID, storage.AnswerInput{Text: a.Text, IsCorrect: false})
		if err != nil {
			s.log.Warn("answer demotion not persisted", zap.Int64("answer_id", a.ID), zap.Error(err))
		}
	}
	return ids
}

func (s *Session) view(q quiz.Question) QuestionView {
	return QuestionView{Question: q, Number: s.answers.Position(q.ID), Render: q.Render()}
}

func (s *Session) begin(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[key]; ok {
		return ErrBusy
	}
	s.inFlight[key] = struct{}{}
	return nil
}

func (s *Session) end(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

func (s *Session) beginCreate(text string, typ quiz.QuestionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return ErrCreationPending
	}
	s.pending = &PendingCreation{Text: text, Type: typ, Since: time.Now()}
	return nil
}

func (s *Session) endCreate() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// detach keeps a sent request alive when the caller goes away: the store
// owns timeouts and requests are never cancelled once issued.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
