package quiz

import (
	"math"

	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/question"
)

// Mode selects how many questions a session draws from the bank.
type Mode string

const (
	ModeAll    Mode = "all"
	ModeTwenty Mode = "20"
)

// SampleSize is the number of questions drawn in ModeTwenty.
const SampleSize = 20

func (m Mode) Valid() bool { return m == ModeAll || m == ModeTwenty }

// RevealMode selects the grading discipline of a running session.
type RevealMode string

const (
	// RevealInstant grades each answer immediately and freezes the question
	// until the session advances.
	RevealInstant RevealMode = "instant"
	// RevealFinal records answers silently and grades them on finalize.
	RevealFinal RevealMode = "final"
)

func (r RevealMode) Valid() bool { return r == RevealInstant || r == RevealFinal }

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseCompleted Phase = "completed"
)

// Origin identifies the stored source a session was started from.
type Origin struct {
	SourceID string `json:"source_id"`
	FileName string `json:"file_name"`
}

// Feedback describes the graded answer of the current question in instant mode.
type Feedback struct {
	SelectedShown question.Label `json:"selected_shown"`
	SelectedText  string         `json:"selected_text"`
	CorrectShown  question.Label `json:"correct_shown"`
	CorrectText   string         `json:"correct_text"`
	IsCorrect     bool           `json:"is_correct"`
}

type state struct {
	phase      Phase
	mode       Mode
	reveal     RevealMode
	origin     Origin
	quiz       []question.Question
	choices    [][4]Choice
	index      int
	selections []question.Label
	correct    int
	feedback   *Feedback
}

// Session is the state machine of one quiz run. Every operation replaces the
// whole state; operations that are not valid in the current state are no-ops
// and report false. A Session is not safe for concurrent use.
type Session struct {
	shuffle Shuffler
	st      state
}

func NewSession(s Shuffler) *Session {
	if s == nil {
		s = DefaultShuffler
	}
	return &Session{shuffle: s, st: state{phase: PhaseIdle}}
}

// Start begins a run over questions. In ModeTwenty a bank larger than
// SampleSize is sampled without replacement. Each question gets its choice
// order fixed for the whole run.
func (s *Session) Start(questions []question.Question, mode Mode, reveal RevealMode, origin Origin) bool {
	if len(questions) == 0 || !mode.Valid() || !reveal.Valid() {
		return false
	}
	base := append([]question.Question(nil), questions...)
	if mode == ModeTwenty && len(base) > SampleSize {
		s.shuffle.Shuffle(len(base), func(i, j int) { base[i], base[j] = base[j], base[i] })
		base = base[:SampleSize]
	}
	choices := make([][4]Choice, len(base))
	for i, q := range base {
		choices[i] = BuildChoices(q, s.shuffle)
	}
	s.st = state{
		phase:      PhaseRunning,
		mode:       mode,
		reveal:     reveal,
		origin:     origin,
		quiz:       base,
		choices:    choices,
		selections: make([]question.Label, len(base)),
	}
	return true
}

// Answer records the option shown under displayLabel for the current question.
func (s *Session) Answer(displayLabel question.Label) bool {
	cur := s.st
	if cur.phase != PhaseRunning || cur.index >= len(cur.quiz) {
		return false
	}
	if cur.reveal == RevealInstant && cur.feedback != nil {
		return false
	}
	picked, ok := findByDisplay(cur.choices[cur.index], displayLabel)
	if !ok {
		return false
	}

	next := cur
	next.selections = append([]question.Label(nil), cur.selections...)
	next.selections[cur.index] = picked.CanonicalLabel

	if cur.reveal == RevealInstant {
		q := cur.quiz[cur.index]
		right, ok := findByCanonical(cur.choices[cur.index], q.CorrectLabel)
		if !ok {
			return false
		}
		isCorrect := picked.CanonicalLabel == q.CorrectLabel
		if isCorrect {
			next.correct++
		}
		next.feedback = &Feedback{
			SelectedShown: picked.DisplayLabel,
			SelectedText:  picked.Text,
			CorrectShown:  right.DisplayLabel,
			CorrectText:   right.Text,
			IsCorrect:     isCorrect,
		}
	}
	s.st = next
	return true
}

// Advance moves to the next question, or completes the run from the last one.
// In instant mode the current question must have been answered first.
func (s *Session) Advance() bool {
	cur := s.st
	if cur.phase != PhaseRunning {
		return false
	}
	if cur.reveal == RevealInstant && cur.feedback == nil {
		return false
	}
	if cur.index+1 >= len(cur.quiz) {
		return s.Finalize()
	}
	next := cur
	next.index++
	next.feedback = nil
	s.st = next
	return true
}

// Retreat moves back one question. Only final mode allows going back.
func (s *Session) Retreat() bool {
	cur := s.st
	if cur.phase != PhaseRunning || cur.reveal != RevealFinal || cur.index <= 0 {
		return false
	}
	next := cur
	next.index--
	next.feedback = nil
	s.st = next
	return true
}

// Finalize grades every recorded selection and completes the run. Unanswered
// questions count as incorrect.
func (s *Session) Finalize() bool {
	cur := s.st
	if cur.phase != PhaseRunning {
		return false
	}
	next := cur
	next.correct = grading.CountCorrect(cur.quiz, cur.selections)
	next.feedback = nil
	next.phase = PhaseCompleted
	s.st = next
	return true
}

// Reset discards the run.
func (s *Session) Reset() { s.st = state{phase: PhaseIdle} }

func (s *Session) Phase() Phase       { return s.st.phase }
func (s *Session) Mode() Mode         { return s.st.mode }
func (s *Session) Reveal() RevealMode { return s.st.reveal }
func (s *Session) Origin() Origin     { return s.st.origin }
func (s *Session) Index() int         { return s.st.index }
func (s *Session) Total() int         { return len(s.st.quiz) }
func (s *Session) Score() int         { return s.st.correct }
func (s *Session) Grade() float64     { return grading.Grade(s.st.correct, len(s.st.quiz)) }
func (s *Session) Completed() bool    { return s.st.phase == PhaseCompleted }
func (s *Session) Running() bool      { return s.st.phase == PhaseRunning }
func (s *Session) HasFeedback() bool  { return s.st.feedback != nil }

func (s *Session) CurrentQuestion() (question.Question, bool) {
	if s.st.index >= len(s.st.quiz) {
		return question.Question{}, false
	}
	return s.st.quiz[s.st.index], true
}

func (s *Session) CurrentChoices() ([4]Choice, bool) {
	if s.st.index >= len(s.st.choices) {
		return [4]Choice{}, false
	}
	return s.st.choices[s.st.index], true
}

func (s *Session) Feedback() (Feedback, bool) {
	if s.st.feedback == nil {
		return Feedback{}, false
	}
	return *s.st.feedback, true
}

// Questions returns the questions of the run in play order.
func (s *Session) Questions() []question.Question {
	return append([]question.Question(nil), s.st.quiz...)
}

// Selections returns the canonical label picked per question, "" when unanswered.
func (s *Session) Selections() []question.Label {
	return append([]question.Label(nil), s.st.selections...)
}

func (s *Session) AnsweredCount() int {
	n := 0
	for _, l := range s.st.selections {
		if l != "" {
			n++
		}
	}
	return n
}

// ProgressFraction counts the current question as done once it shows feedback.
func (s *Session) ProgressFraction() float64 {
	total := len(s.st.quiz)
	if total == 0 {
		return 0
	}
	done := s.st.index
	if s.st.feedback != nil {
		done++
	}
	return float64(done) / float64(total)
}

func (s *Session) ProgressPercent() int {
	return int(math.Round(s.ProgressFraction() * 100))
}
