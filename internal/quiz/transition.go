package quiz

// TransitionResult is the reconciled question after a type edit.
type TransitionResult struct {
	Question Question
	From     QuestionType
	To       QuestionType
	// Demoted holds the answers whose flag was cleared and must be persisted.
	Demoted []Answer
	Render  []RenderAnswer
}

func (r TransitionResult) Changed() bool {
	return r.From != r.To
}

// Transition moves q to type to. Moving to single runs Enforce on the
// existing answers; moving to multiple keeps every flag. A transition to
// the current type is a no-op with an empty Demoted set.
func Transition(q Question, to QuestionType) (TransitionResult, error) {
	if !to.Valid() {
		return TransitionResult{}, ErrUnknownType
	}

	next := q.Clone()
	res := TransitionResult{From: q.Type, To: to}
	if q.Type == to {
		res.Question = next
		res.Render = next.Render()
		return res, nil
	}

	next.Type = to
	if to == TypeSingle {
		answers, changed := Enforce(next)
		next.Answers = answers
		for _, id := range changed {
			res.Demoted = append(res.Demoted, next.Answers[next.AnswerIndex(id)])
		}
	}

	res.Question = next
	res.Render = next.Render()
	return res, nil
}
