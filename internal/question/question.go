package question

import (
	"errors"
	"strings"
)

var (
	ErrNoQuestions = errors.New("no valid questions found")
	ErrUnreadable  = errors.New("could not read file")
)

// Label is one of the four canonical option letters.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// Labels lists the option letters in canonical order.
var Labels = [4]Label{LabelA, LabelB, LabelC, LabelD}

func (l Label) Valid() bool {
	switch l {
	case LabelA, LabelB, LabelC, LabelD:
		return true
	}
	return false
}

// Index returns the option slot of l, or -1 when l is not a valid label.
func (l Label) Index() int {
	for i, v := range Labels {
		if v == l {
			return i
		}
	}
	return -1
}

func LabelAt(i int) Label { return Labels[i] }

// Question is a validated multiple-choice record. It is not modified after parsing.
type Question struct {
	Statement    string    `json:"statement"`
	Options      [4]string `json:"options"`
	CorrectLabel Label     `json:"correctLabel"`
}

// Valid reports whether q satisfies the record invariants: a non-empty
// statement, four non-empty options and a canonical correct label.
func (q Question) Valid() bool {
	if strings.TrimSpace(q.Statement) == "" {
		return false
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return false
		}
	}
	return q.CorrectLabel.Valid()
}

// OptionText returns the option shown under canonical label l.
func (q Question) OptionText(l Label) string {
	i := l.Index()
	if i < 0 {
		return ""
	}
	return q.Options[i]
}
