package quiz

import "sync"

// AnswerStore is the local, confirmed state of one quiz: its questions in
// creation order and each question's answers. It never talks to the
// Knowledge Store; callers commit into it only after the store confirmed.
type AnswerStore struct {
	mu        sync.RWMutex
	order     []int64
	questions map[int64]Question
	owners    map[int64]int64
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{
		questions: make(map[int64]Question),
		owners:    make(map[int64]int64),
	}
}

func (s *AnswerStore) Load(qs []Question) error {
	order := make([]int64, 0, len(qs))
	questions := make(map[int64]Question, len(qs))
	owners := make(map[int64]int64)

	for _, q := range qs {
		if _, ok := questions[q.ID]; ok {
			return ErrDuplicateQuestion
		}
		for _, a := range q.Answers {
			if _, ok := owners[a.ID]; ok {
				return ErrDuplicateAnswer
			}
			owners[a.ID] = q.ID
		}
		if q.Type == "" {
			q.Type = TypeSingle
		}
		if !q.Type.Valid() {
			return ErrUnknownType
		}
		order = append(order, q.ID)
		questions[q.ID] = q.Clone()
	}

	s.mu.Lock()
	s.order = order
	s.questions = questions
	s.owners = owners
	s.mu.Unlock()
	return nil
}

func (s *AnswerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *AnswerStore) Questions() []Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Question, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.questions[id].Clone())
	}
	return out
}

func (s *AnswerStore) Question(id int64) (Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return Question{}, false
	}
	return q.Clone(), true
}

// Position returns the 1-based position of a question in creation order.
func (s *AnswerStore) Position(id int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, qid := range s.order {
		if qid == id {
			return i + 1
		}
	}
	return 0
}

func (s *AnswerStore) OwnerOf(answerID int64) (Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	qid, ok := s.owners[answerID]
	if !ok {
		return Question{}, false
	}
	return s.questions[qid].Clone(), true
}

// Put inserts q at the end, or replaces the stored question keeping its position.
func (s *AnswerStore) Put(q Question) {
	q = q.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.questions[q.ID]; ok {
		for _, a := range prev.Answers {
			delete(s.owners, a.ID)
		}
	} else {
		s.order = append(s.order, q.ID)
	}
	for _, a := range q.Answers {
		s.owners[a.ID] = q.ID
	}
	s.questions[q.ID] = q
}

// Remove drops a question together with its answers.
func (s *AnswerStore) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return false
	}
	for _, a := range q.Answers {
		delete(s.owners, a.ID)
	}
	delete(s.questions, id)
	for i, qid := range s.order {
		if qid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
