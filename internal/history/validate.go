package history

import (
	"encoding/json"
	"math"

	"github.com/mind-engage/mindengage-quiz/internal/question"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// The validators below work on the generic JSON tree produced by a decoder
// with UseNumber set, so numbers arrive as json.Number.

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func asString(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// asInt64 accepts integral numbers only; 2.0 passes, 2.5 does not.
func asInt64(m map[string]any, key string) (int64, bool) {
	n, ok := m[key].(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func asLabel(v any) (question.Label, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	l := question.Label(s)
	return l, l.Valid()
}

func validateQuestion(v any) (question.Question, bool) {
	m, ok := asObject(v)
	if !ok {
		return question.Question{}, false
	}
	var q question.Question
	if q.Statement, ok = asString(m, "statement"); !ok {
		return question.Question{}, false
	}
	opts, ok := m["options"].([]any)
	if !ok || len(opts) != len(q.Options) {
		return question.Question{}, false
	}
	for i, o := range opts {
		if q.Options[i], ok = o.(string); !ok {
			return question.Question{}, false
		}
	}
	if q.CorrectLabel, ok = asLabel(m["correctLabel"]); !ok {
		return question.Question{}, false
	}
	if !q.Valid() {
		return question.Question{}, false
	}
	return q, true
}

func validateQuestions(v any) ([]question.Question, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]question.Question, 0, len(arr))
	for _, item := range arr {
		q, ok := validateQuestion(item)
		if !ok {
			return nil, false
		}
		out = append(out, q)
	}
	return out, true
}

// validateAnswer requires "selected" to be present, either null or a label.
func validateAnswer(v any) (AttemptAnswer, bool) {
	m, ok := asObject(v)
	if !ok {
		return AttemptAnswer{}, false
	}
	var a AttemptAnswer
	sel, present := m["selected"]
	if !present {
		return AttemptAnswer{}, false
	}
	if sel != nil {
		l, ok := asLabel(sel)
		if !ok {
			return AttemptAnswer{}, false
		}
		a.Selected = &l
	}
	if a.Correct, ok = asLabel(m["correct"]); !ok {
		return AttemptAnswer{}, false
	}
	return a, true
}

func validateSource(key string, v any) (QuizSource, bool) {
	m, ok := asObject(v)
	if !ok {
		return QuizSource{}, false
	}
	var src QuizSource
	if src.ID, ok = asString(m, "id"); !ok || src.ID != key {
		return QuizSource{}, false
	}
	if src.FileName, ok = asString(m, "fileName"); !ok {
		return QuizSource{}, false
	}
	if src.CreatedAt, ok = asInt64(m, "createdAt"); !ok {
		return QuizSource{}, false
	}
	if src.Questions, ok = validateQuestions(m["questions"]); !ok {
		return QuizSource{}, false
	}
	return src, true
}

func validateAttempt(v any) (QuizAttempt, bool) {
	m, ok := asObject(v)
	if !ok {
		return QuizAttempt{}, false
	}
	var a QuizAttempt
	if a.ID, ok = asString(m, "id"); !ok {
		return QuizAttempt{}, false
	}
	if a.CreatedAt, ok = asInt64(m, "createdAt"); !ok {
		return QuizAttempt{}, false
	}
	if a.FileName, ok = asString(m, "fileName"); !ok {
		return QuizAttempt{}, false
	}
	if a.SourceID, ok = asString(m, "sourceId"); !ok {
		return QuizAttempt{}, false
	}
	mode, ok := asString(m, "mode")
	if a.Mode = quiz.Mode(mode); !ok || !a.Mode.Valid() {
		return QuizAttempt{}, false
	}
	if a.Questions, ok = validateQuestions(m["questions"]); !ok {
		return QuizAttempt{}, false
	}
	raw, ok := m["answers"].([]any)
	if !ok || len(raw) != len(a.Questions) {
		return QuizAttempt{}, false
	}
	a.Answers = make([]AttemptAnswer, 0, len(raw))
	for _, item := range raw {
		ans, ok := validateAnswer(item)
		if !ok {
			return QuizAttempt{}, false
		}
		a.Answers = append(a.Answers, ans)
	}
	return a, true
}
