package quiz

import "strings"

type QuestionType string

const (
	TypeSingle   QuestionType = "single"
	TypeMultiple QuestionType = "multiple"
)

func (t QuestionType) Valid() bool {
	return t == TypeSingle || t == TypeMultiple
}

// ParseQuestionType accepts the wire spelling; empty means the default type.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return TypeSingle, nil
	}
	if !t.Valid() {
		return "", ErrUnknownType
	}
	return t, nil
}

type InputKind string

const (
	InputRadio    InputKind = "radio"
	InputCheckbox InputKind = "checkbox"
)

func (t QuestionType) Input() InputKind {
	if t == TypeMultiple {
		return InputCheckbox
	}
	return InputRadio
}

type Answer struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"question_type"`
	Answers []Answer     `json:"answers"`
}

// RenderAnswer is what the presentation layer needs to redraw one answer row.
type RenderAnswer struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"is_correct"`
	Input     InputKind `json:"input"`
}

func (q Question) Clone() Question {
	out := q
	if q.Answers != nil {
		out.Answers = make([]Answer, len(q.Answers))
		copy(out.Answers, q.Answers)
	}
	return out
}

func (q Question) AnswerIndex(id int64) int {
	for i, a := range q.Answers {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (q Question) CorrectCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// Consistent reports whether the question satisfies its type's correctness rule.
func (q Question) Consistent() bool {
	return q.Type != TypeSingle || q.CorrectCount() <= 1
}

func (q Question) Render() []RenderAnswer {
	input := q.Type.Input()
	out := make([]RenderAnswer, 0, len(q.Answers))
	for _, a := range q.Answers {
		out = append(out, RenderAnswer{
			ID:        a.ID,
			Text:      a.Text,
			IsCorrect: a.IsCorrect,
			Input:     input,
		})
	}
	return out
}
