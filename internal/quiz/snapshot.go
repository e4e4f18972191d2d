package quiz

import "github.com/mind-engage/mindengage-quiz/internal/question"

// Snapshot is the read-only projection of a session handed to the presentation layer.
// Canonical labels and correct answers are only exposed through Feedback.
type Snapshot struct {
	Phase     Phase          `json:"phase"`
	Mode      Mode           `json:"mode"`
	Reveal    RevealMode     `json:"reveal"`
	Origin    Origin         `json:"origin"`
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Statement string         `json:"statement,omitempty"`
	Choices   []Choice       `json:"choices,omitempty"`
	Selected  question.Label `json:"selected,omitempty"`
	Feedback  *Feedback      `json:"feedback,omitempty"`
	Answered  int            `json:"answered"`
	Progress  int            `json:"progress_pct"`
	Score     int            `json:"score"`
	Grade     *float64       `json:"grade,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:    s.st.phase,
		Mode:     s.st.mode,
		Reveal:   s.st.reveal,
		Origin:   s.st.origin,
		Index:    s.st.index,
		Total:    len(s.st.quiz),
		Answered: s.AnsweredCount(),
		Progress: s.ProgressPercent(),
		Score:    s.st.correct,
	}
	if s.st.phase == PhaseCompleted {
		g := s.Grade()
		snap.Grade = &g
		return snap
	}
	if q, ok := s.CurrentQuestion(); ok {
		snap.Statement = q.Statement
	}
	if cs, ok := s.CurrentChoices(); ok {
		snap.Choices = cs[:]
		if sel := s.st.selections[s.st.index]; sel != "" {
			if c, ok := findByCanonical(cs, sel); ok {
				snap.Selected = c.DisplayLabel
			}
		}
	}
	if fb, ok := s.Feedback(); ok {
		snap.Feedback = &fb
	}
	return snap
}
