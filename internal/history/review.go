package history

import (
	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/question"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// Summary is the listing view of an attempt.
type Summary struct {
	ID         string    `json:"id"`
	CreatedAt  int64     `json:"createdAt"`
	FileName   string    `json:"fileName"`
	SourceID   string    `json:"sourceId"`
	Mode       quiz.Mode `json:"mode"`
	Correct    int       `json:"correct"`
	Total      int       `json:"total"`
	Unanswered int       `json:"unanswered"`
	Grade      string    `json:"grade"`
}

func (a QuizAttempt) result() grading.Result {
	sel := make([]question.Label, len(a.Answers))
	correct := make([]question.Label, len(a.Answers))
	for i, ans := range a.Answers {
		if ans.Selected != nil {
			sel[i] = *ans.Selected
		}
		correct[i] = ans.Correct
	}
	return grading.Score(sel, correct)
}

func (a QuizAttempt) Summary() Summary {
	r := a.result()
	return Summary{
		ID:         a.ID,
		CreatedAt:  a.CreatedAt,
		FileName:   a.FileName,
		SourceID:   a.SourceID,
		Mode:       a.Mode,
		Correct:    r.Correct,
		Total:      r.Total,
		Unanswered: r.Unanswered,
		Grade:      grading.FormatGrade(r.Grade),
	}
}

type ReviewOption struct {
	Label    question.Label `json:"label"`
	Text     string         `json:"text"`
	Selected bool           `json:"selected"`
	Correct  bool           `json:"correct"`
}

type ReviewItem struct {
	Number    int             `json:"number"`
	Statement string          `json:"statement"`
	Options   [4]ReviewOption `json:"options"`
	Answered  bool            `json:"answered"`
	IsCorrect bool            `json:"isCorrect"`
}

type Review struct {
	Summary
	Items []ReviewItem `json:"items"`
}

// Review lays out every question with its options in canonical A-D order,
// whatever order they were shown in during the attempt.
func (a QuizAttempt) Review() Review {
	items := make([]ReviewItem, 0, len(a.Questions))
	for i, q := range a.Questions {
		var ans AttemptAnswer
		if i < len(a.Answers) {
			ans = a.Answers[i]
		}
		var sel question.Label
		if ans.Selected != nil {
			sel = *ans.Selected
		}
		item := ReviewItem{
			Number:    i + 1,
			Statement: q.Statement,
			Answered:  sel != "",
			IsCorrect: grading.IsCorrect(sel, q.CorrectLabel),
		}
		for j, l := range question.Labels {
			item.Options[j] = ReviewOption{
				Label:    l,
				Text:     q.Options[j],
				Selected: l == sel,
				Correct:  l == q.CorrectLabel,
			}
		}
		items = append(items, item)
	}
	return Review{Summary: a.Summary(), Items: items}
}
