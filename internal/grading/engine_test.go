package grading

import (
	"testing"

	"github.com/mind-engage/mindengage-quiz/internal/question"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    string
	}{
		{name: "none correct", correct: 0, total: 10, want: "0.00"},
		{name: "all correct", correct: 10, total: 10, want: "20.00"},
		{name: "one of three", correct: 1, total: 3, want: "6.67"},
		{name: "half", correct: 7, total: 14, want: "10.00"},
		{name: "empty quiz", correct: 0, total: 0, want: "0.00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatGrade(Grade(tc.correct, tc.total)); got != tc.want {
				t.Fatalf("expected grade %s, got %s", tc.want, got)
			}
		})
	}
}

func TestScore(t *testing.T) {
	sel := []question.Label{question.LabelA, "", question.LabelC, question.LabelA}
	cor := []question.Label{question.LabelA, question.LabelB, question.LabelD, question.LabelA}

	got := Score(sel, cor)
	if got.Correct != 2 || got.Total != 4 || got.Unanswered != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
	if FormatGrade(got.Grade) != "10.00" {
		t.Fatalf("expected grade 10.00, got %s", FormatGrade(got.Grade))
	}
}

func TestCountCorrect_ShortSelections(t *testing.T) {
	qs := []question.Question{
		{CorrectLabel: question.LabelA},
		{CorrectLabel: question.LabelB},
	}
	if n := CountCorrect(qs, []question.Label{question.LabelA}); n != 1 {
		t.Fatalf("expected 1 correct, got %d", n)
	}
}
