package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/history"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// GET /attempts  stored order, newest first
func ListAttemptsHandler(hist *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts := hist.Attempts()
		out := make([]history.Summary, 0, len(attempts))
		for _, a := range attempts {
			out = append(out, a.Summary())
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /attempts/{attemptID}  review view in canonical option order
func GetAttemptHandler(hist *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := hist.Attempt(chi.URLParam(r, "attemptID"))
		if !ok {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, a.Review())
	}
}

type retakeReq struct {
	Reveal string `json:"reveal" validate:"required,oneof=instant final"`
}

// POST /attempts/{attemptID}/retake  { "reveal": "instant|final" }
// Replays the attempt's own question snapshot, so it works after the source
// has been evicted.
func RetakeAttemptHandler(hist *history.Store, reg *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := hist.Attempt(chi.URLParam(r, "attemptID"))
		if !ok {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		var req retakeReq
		if !decodeBody(w, r, &req) {
			return
		}
		startSession(w, reg, a.Questions, a.Mode, quiz.RevealMode(req.Reveal),
			quiz.Origin{SourceID: a.SourceID, FileName: a.FileName})
	}
}
