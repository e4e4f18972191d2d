package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/history"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/question"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

type sessionView struct {
	ID        string `json:"id"`
	AttemptID string `json:"attempt_id,omitempty"`
	quiz.Snapshot
}

type startReq struct {
	SourceID string `json:"source_id" validate:"required"`
	Mode     string `json:"mode" validate:"required,oneof=all 20"`
	Reveal   string `json:"reveal" validate:"required,oneof=instant final"`
}

type answerReq struct {
	Label string `json:"label" validate:"required,oneof=A B C D"`
}

// recordIfCompleted stores the attempt once, the first time the session is
// seen completed. Caller holds ls.mu.
func recordIfCompleted(r *http.Request, hist *history.Store, ls *liveSession) string {
	if ls.recorded || !ls.sess.Completed() {
		return ""
	}
	ls.recorded = true
	a, ok := history.AttemptFromSession(ls.sess, time.Now())
	if !ok {
		return ""
	}
	hist.AddAttempt(r.Context(), a)
	return a.ID
}

func startSession(w http.ResponseWriter, reg *Sessions, qs []question.Question, mode quiz.Mode, reveal quiz.RevealMode, origin quiz.Origin) {
	ls := reg.create()
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if !ls.sess.Start(qs, mode, reveal, origin) {
		reg.remove(ls.id)
		http.Error(w, "cannot start session", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView{ID: ls.id, Snapshot: ls.sess.Snapshot()})
}

// POST /sessions  { "source_id": "...", "mode": "all|20", "reveal": "instant|final" }
func StartSessionHandler(hist *history.Store, reg *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startReq
		if !decodeBody(w, r, &req) {
			return
		}
		src, ok := hist.Source(req.SourceID)
		if !ok {
			http.Error(w, "source not found", http.StatusNotFound)
			return
		}
		startSession(w, reg, src.Questions, quiz.Mode(req.Mode), quiz.RevealMode(req.Reveal),
			quiz.Origin{SourceID: src.ID, FileName: src.FileName})
	}
}

func GetSessionHandler(reg *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, ok := reg.get(chi.URLParam(r, "sessionID"))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		ls.mu.Lock()
		defer ls.mu.Unlock()
		writeJSON(w, http.StatusOK, sessionView{ID: ls.id, Snapshot: ls.sess.Snapshot()})
	}
}

// sessionOp runs one state transition. A transition that is not valid in the
// current state answers 409 with the unchanged snapshot. The transition that
// completes a session records its attempt and releases it from the registry.
func sessionOp(hist *history.Store, reg *Sessions, log *logger.Logger, name string, op func(s *quiz.Session) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, ok := reg.get(chi.URLParam(r, "sessionID"))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		ls.mu.Lock()
		defer ls.mu.Unlock()

		if !op(ls.sess) {
			writeJSON(w, http.StatusConflict, sessionView{ID: ls.id, Snapshot: ls.sess.Snapshot()})
			return
		}
		view := sessionView{ID: ls.id}
		view.AttemptID = recordIfCompleted(r, hist, ls)
		view.Snapshot = ls.sess.Snapshot()
		if view.AttemptID != "" {
			log.Info("attempt recorded", "session", ls.id, "attempt", view.AttemptID, "op", name)
		}
		writeJSON(w, http.StatusOK, view)
		// a completed session is discarded once its final snapshot is out
		if ls.sess.Completed() {
			reg.remove(ls.id)
		}
	}
}

// POST /sessions/{sessionID}/answer  { "label": "A|B|C|D" }
func AnswerHandler(hist *history.Store, reg *Sessions, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req answerReq
		if !decodeBody(w, r, &req) {
			return
		}
		sessionOp(hist, reg, log, "answer", func(s *quiz.Session) bool {
			return s.Answer(question.Label(req.Label))
		})(w, r)
	}
}

func NextHandler(hist *history.Store, reg *Sessions, log *logger.Logger) http.HandlerFunc {
	return sessionOp(hist, reg, log, "next", func(s *quiz.Session) bool { return s.Advance() })
}

func PrevHandler(hist *history.Store, reg *Sessions, log *logger.Logger) http.HandlerFunc {
	return sessionOp(hist, reg, log, "prev", func(s *quiz.Session) bool { return s.Retreat() })
}

func FinalizeHandler(hist *history.Store, reg *Sessions, log *logger.Logger) http.HandlerFunc {
	return sessionOp(hist, reg, log, "finalize", func(s *quiz.Session) bool { return s.Finalize() })
}

// DELETE /sessions/{sessionID}  abandons the session
func DeleteSessionHandler(reg *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !reg.remove(chi.URLParam(r, "sessionID")) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
