package history

import (
	"bytes"
	"encoding/json"

	"github.com/mind-engage/mindengage-quiz/internal/question"
)

// Decode rebuilds a State from persisted bytes. It never fails: unreadable
// input, a missing or unknown version tag, or a malformed envelope all yield
// Empty(). Individually invalid sources and attempts are dropped.
func Decode(b []byte) State {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return Empty()
	}
	obj, ok := asObject(root)
	if !ok {
		return Empty()
	}
	if v, ok := asInt64(obj, "v"); !ok || v != Version {
		return Empty()
	}
	rawSources, ok := asObject(obj["sources"])
	if !ok {
		return Empty()
	}
	rawAttempts, ok := obj["attempts"].([]any)
	if !ok {
		return Empty()
	}

	st := Empty()
	for key, v := range rawSources {
		if src, ok := validateSource(key, v); ok {
			st.Sources[key] = src
		}
	}
	for _, v := range rawAttempts {
		if len(st.Attempts) == MaxAttempts {
			break
		}
		if a, ok := validateAttempt(v); ok {
			st.Attempts = append(st.Attempts, a)
		}
	}
	return st
}

// Encode serializes s under the current version tag. Nil collections are
// written as empty ones so the output always decodes back.
func Encode(s State) ([]byte, error) {
	out := State{
		Version:  Version,
		Sources:  make(map[string]QuizSource, len(s.Sources)),
		Attempts: make([]QuizAttempt, 0, len(s.Attempts)),
	}
	for id, src := range s.Sources {
		if src.Questions == nil {
			src.Questions = []question.Question{}
		}
		out.Sources[id] = src
	}
	for _, a := range s.Attempts {
		if a.Questions == nil {
			a.Questions = []question.Question{}
		}
		if a.Answers == nil {
			a.Answers = []AttemptAnswer{}
		}
		out.Attempts = append(out.Attempts, a)
	}
	return json.Marshal(out)
}
