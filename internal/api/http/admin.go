package http

import (
	"net/http"

	"github.com/mind-engage/mindengage-quiz/internal/history"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
)

// POST /admin/history/reset
func ResetHistoryHandler(hist *history.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hist.Reset(r.Context())
		log.Warn("history reset", "remote", r.RemoteAddr)
		w.WriteHeader(http.StatusNoContent)
	}
}
