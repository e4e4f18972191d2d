package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/history"
	"github.com/mind-engage/mindengage-quiz/internal/question"
)

type sourceInfo struct {
	ID            string `json:"id"`
	FileName      string `json:"fileName"`
	CreatedAt     int64  `json:"createdAt"`
	QuestionCount int    `json:"questionCount"`
}

func infoOf(src history.QuizSource) sourceInfo {
	return sourceInfo{
		ID:            src.ID,
		FileName:      src.FileName,
		CreatedAt:     src.CreatedAt,
		QuestionCount: len(src.Questions),
	}
}

// parseUpload picks the bank format by file extension.
func parseUpload(fileName string, raw []byte) ([]question.Question, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		return question.ParseXLSX(bytes.NewReader(raw))
	}
	return question.ParseBank(question.Text(raw))
}

// readFailed answers 413 when the body hit the upload limit and 400 otherwise.
func readFailed(w http.ResponseWriter, err error, msg string) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		http.Error(w, fmt.Sprintf("file exceeds %d bytes", mbe.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, msg, http.StatusBadRequest)
}

// POST /sources  (multipart, field "file")
func UploadSourceHandler(hist *history.Store, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			readFailed(w, err, "file required")
			return
		}
		defer f.Close()

		raw, err := io.ReadAll(f)
		if err != nil {
			readFailed(w, err, question.ErrUnreadable.Error())
			return
		}
		qs, err := parseUpload(hdr.Filename, raw)
		switch {
		case errors.Is(err, question.ErrNoQuestions):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		case errors.Is(err, question.ErrUnreadable):
			http.Error(w, question.ErrUnreadable.Error(), http.StatusBadRequest)
			return
		case err != nil:
			http.Error(w, fmt.Sprintf("parse: %v", err), http.StatusBadRequest)
			return
		}

		src := hist.AddSource(r.Context(), raw, filepath.Base(hdr.Filename), qs)
		writeJSON(w, http.StatusCreated, infoOf(src))
	}
}

// GET /sources  newest first
func ListSourcesHandler(hist *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		srcs := hist.Sources()
		out := make([]sourceInfo, 0, len(srcs))
		for _, s := range srcs {
			out = append(out, infoOf(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetSourceHandler(hist *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, ok := hist.Source(chi.URLParam(r, "sourceID"))
		if !ok {
			http.Error(w, "source not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, src)
	}
}
