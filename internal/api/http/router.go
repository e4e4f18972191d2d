package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/mindengage-quiz/internal/auth"
	"github.com/mind-engage/mindengage-quiz/internal/history"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/rbac"
)

type RouterConfig struct {
	History        *history.Store
	Sessions       *Sessions
	Log            *logger.Logger
	CORSOrigins    []string
	MaxUploadBytes int64
	// AdminUser and AdminPassHash guard maintenance routes. An empty hash
	// leaves them unmounted.
	AdminUser     string
	AdminPassHash string
}

func NewRouter(rc RouterConfig) http.Handler {
	if rc.Log == nil {
		rc.Log = logger.Nop()
	}
	if rc.Sessions == nil {
		rc.Sessions = NewSessions(nil)
	}
	hist, reg, log := rc.History, rc.Sessions, rc.Log

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rc.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/sources", func(sr chi.Router) {
		sr.Post("/", UploadSourceHandler(hist, rc.MaxUploadBytes))
		sr.Get("/", ListSourcesHandler(hist))
		sr.Get("/{sourceID}", GetSourceHandler(hist))
	})

	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", StartSessionHandler(hist, reg))
		sr.Get("/{sessionID}", GetSessionHandler(reg))
		sr.Delete("/{sessionID}", DeleteSessionHandler(reg))
		sr.Post("/{sessionID}/answer", AnswerHandler(hist, reg, log))
		sr.Post("/{sessionID}/next", NextHandler(hist, reg, log))
		sr.Post("/{sessionID}/prev", PrevHandler(hist, reg, log))
		sr.Post("/{sessionID}/finalize", FinalizeHandler(hist, reg, log))
	})

	r.Route("/attempts", func(ar chi.Router) {
		ar.Get("/", ListAttemptsHandler(hist))
		ar.Get("/{attemptID}", GetAttemptHandler(hist))
		ar.Post("/{attemptID}/retake", RetakeAttemptHandler(hist, reg))
	})

	if rc.AdminPassHash != "" {
		r.Group(func(ar chi.Router) {
			ar.Use(auth.BasicAdmin(rc.AdminUser, rc.AdminPassHash))
			ar.With(rbac.Require("history:reset")).
				Post("/admin/history/reset", ResetHistoryHandler(hist, log))
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
