package grading

import (
	"fmt"

	"github.com/mind-engage/mindengage-quiz/internal/question"
)

// Scale is the maximum grade of a quiz.
const Scale = 20.0

// Result is the outcome of grading a set of single-choice answers.
type Result struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Unanswered int     `json:"unanswered"`
	Grade      float64 `json:"grade"`
}

// Grade maps correct out of total onto the 0-20 scale. An empty quiz grades 0.
func Grade(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * Scale
}

// FormatGrade renders g with two decimals.
func FormatGrade(g float64) string { return fmt.Sprintf("%.2f", g) }

// IsCorrect reports whether selected matches correct. An empty selection is
// never correct.
func IsCorrect(selected, correct question.Label) bool {
	return selected != "" && selected == correct
}

// CountCorrect compares selections against each question's correct label.
// Missing or empty selections count as incorrect.
func CountCorrect(questions []question.Question, selections []question.Label) int {
	n := 0
	for i, q := range questions {
		if i < len(selections) && IsCorrect(selections[i], q.CorrectLabel) {
			n++
		}
	}
	return n
}

// Score grades selections against correct labels, order-aligned.
func Score(selections, correct []question.Label) Result {
	res := Result{Total: len(correct)}
	for i, c := range correct {
		var sel question.Label
		if i < len(selections) {
			sel = selections[i]
		}
		switch {
		case sel == "":
			res.Unanswered++
		case IsCorrect(sel, c):
			res.Correct++
		}
	}
	res.Grade = Grade(res.Correct, res.Total)
	return res
}
