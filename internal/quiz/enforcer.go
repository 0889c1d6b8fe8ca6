package quiz

// Enforce reconciles answers against the question type. For single
// questions the first correct answer in order survives and every later one
// is demoted. The returned ids are the demoted answers, in order.
func Enforce(q Question) ([]Answer, []int64) {
	out := make([]Answer, len(q.Answers))
	copy(out, q.Answers)
	if q.Type != TypeSingle {
		return out, nil
	}

	var changed []int64
	kept := false
	for i := range out {
		if !out[i].IsCorrect {
			continue
		}
		if !kept {
			kept = true
			continue
		}
		out[i].IsCorrect = false
		changed = append(changed, out[i].ID)
	}
	return out, changed
}

// EnforceChoice makes chosenID the only correct answer of a single
// question, demoting whoever held the flag before. Multiple questions are
// returned unchanged.
func EnforceChoice(q Question, chosenID int64) ([]Answer, []int64) {
	out := make([]Answer, len(q.Answers))
	copy(out, q.Answers)
	if q.Type != TypeSingle {
		return out, nil
	}

	var changed []int64
	for i := range out {
		if out[i].ID == chosenID {
			continue
		}
		if out[i].IsCorrect {
			out[i].IsCorrect = false
			changed = append(changed, out[i].ID)
		}
	}
	return out, changed
}
