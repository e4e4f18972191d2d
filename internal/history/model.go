package history

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/question"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

const (
	// Version is the only schema tag Decode accepts.
	Version = 2
	// MaxAttempts bounds the attempt list; older attempts are evicted first.
	MaxAttempts = 10
)

type QuizSource struct {
	ID        string              `json:"id"`
	FileName  string              `json:"fileName"`
	CreatedAt int64               `json:"createdAt"` // unix ms
	Questions []question.Question `json:"questions"`
}

// AttemptAnswer pairs a selection with the correct label. Selected is nil when
// the question was left unanswered.
type AttemptAnswer struct {
	Selected *question.Label `json:"selected"`
	Correct  question.Label  `json:"correct"`
}

// QuizAttempt embeds its own question snapshot so it stays reviewable after
// the source is gone.
type QuizAttempt struct {
	ID        string              `json:"id"`
	CreatedAt int64               `json:"createdAt"`
	FileName  string              `json:"fileName"`
	SourceID  string              `json:"sourceId"`
	Mode      quiz.Mode           `json:"mode"`
	Questions []question.Question `json:"questions"`
	Answers   []AttemptAnswer     `json:"answers"`
}

type State struct {
	Version  int                   `json:"v"`
	Sources  map[string]QuizSource `json:"sources"`
	Attempts []QuizAttempt         `json:"attempts"`
}

func Empty() State {
	return State{Version: Version, Sources: map[string]QuizSource{}, Attempts: []QuizAttempt{}}
}

// RecordAttempt returns a new state with a prepended and the list cut to
// MaxAttempts. s is not modified.
func RecordAttempt(s State, a QuizAttempt) State {
	n := len(s.Attempts) + 1
	if n > MaxAttempts {
		n = MaxAttempts
	}
	attempts := make([]QuizAttempt, 0, n)
	attempts = append(attempts, a)
	for _, prev := range s.Attempts {
		if len(attempts) == n {
			break
		}
		attempts = append(attempts, prev)
	}
	return State{Version: Version, Sources: s.Sources, Attempts: attempts}
}

// RecordSource inserts src unless a source with the same id is present.
func RecordSource(s State, src QuizSource) State {
	if _, ok := s.Sources[src.ID]; ok {
		return s
	}
	sources := make(map[string]QuizSource, len(s.Sources)+1)
	for k, v := range s.Sources {
		sources[k] = v
	}
	sources[src.ID] = src
	return State{Version: Version, Sources: sources, Attempts: s.Attempts}
}

// SourceID derives a fixed-width id from the raw bank content. Byte-identical
// uploads map to the same id whatever their file name.
func SourceID(raw []byte) string {
	return fmt.Sprintf("src_%016x", xxhash.Sum64(raw))
}

func NewAttemptID() string { return "att_" + uuid.NewString() }

// NewSource builds a source record for questions parsed from raw.
func NewSource(raw []byte, fileName string, questions []question.Question, now time.Time) QuizSource {
	return QuizSource{
		ID:        SourceID(raw),
		FileName:  fileName,
		CreatedAt: now.UnixMilli(),
		Questions: append([]question.Question(nil), questions...),
	}
}

// AttemptFromSession snapshots a completed session. It reports false when the
// session is not completed or was not started from a stored source.
func AttemptFromSession(s *quiz.Session, now time.Time) (QuizAttempt, bool) {
	origin := s.Origin()
	if !s.Completed() || origin.SourceID == "" || origin.FileName == "" {
		return QuizAttempt{}, false
	}
	qs := s.Questions()
	sel := s.Selections()
	answers := make([]AttemptAnswer, len(qs))
	for i, q := range qs {
		answers[i].Correct = q.CorrectLabel
		if i < len(sel) && sel[i] != "" {
			l := sel[i]
			answers[i].Selected = &l
		}
	}
	return QuizAttempt{
		ID:        NewAttemptID(),
		CreatedAt: now.UnixMilli(),
		FileName:  origin.FileName,
		SourceID:  origin.SourceID,
		Mode:      s.Mode(),
		Questions: qs,
		Answers:   answers,
	}, true
}
