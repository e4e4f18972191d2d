package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-quiz/internal/history"
	"github.com/mind-engage/mindengage-quiz/internal/quiz"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

const bank = `What is 2+2?
A) 3
B) 4
C) 5
D) 22
ANSWER: B

Capital of France?
A) Paris
B) Rome
C) Madrid
D) Berlin
ANSWER: A
`

type fixture struct {
	t    *testing.T
	h    http.Handler
	hist *history.Store
	reg  *Sessions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithLimit(t, 1<<20)
}

func newFixtureWithLimit(t *testing.T, maxUpload int64) *fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	hist := history.NewStore(storage.NewMemoryStore(), "quiz.history", nil)
	hist.Load(context.Background())
	reg := NewSessions(quiz.IdentityShuffler)
	h := NewRouter(RouterConfig{
		History:        hist,
		Sessions:       reg,
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes: maxUpload,
		AdminUser:      "admin",
		AdminPassHash:  string(hash),
	})
	return &fixture{t: t, h: h, hist: hist, reg: reg}
}

func (f *fixture) upload(name, body string) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		f.t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte(body))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/sources", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	f.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestUploadSource(t *testing.T) {
	f := newFixture(t)

	rec := f.upload("bank.txt", bank)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	first := decode[sourceInfo](t, rec)
	if first.QuestionCount != 2 || !strings.HasPrefix(first.ID, "src_") {
		t.Fatalf("unexpected source %+v", first)
	}

	// same bytes under another name dedupe to the same source
	second := decode[sourceInfo](t, f.upload("copy.txt", bank))
	if second.ID != first.ID || second.FileName != "bank.txt" {
		t.Fatalf("expected dedupe onto %s, got %+v", first.ID, second)
	}
	list := decode[[]sourceInfo](t, f.do(http.MethodGet, "/sources", ""))
	if len(list) != 1 {
		t.Fatalf("expected 1 source, got %d", len(list))
	}

	if rec := f.upload("junk.txt", "nothing to see here\n"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty parse, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/sources/src_missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUploadSource_ByteOrderMark(t *testing.T) {
	f := newFixture(t)
	src := decode[sourceInfo](t, f.upload("bom.txt", "\ufeff"+bank))
	if src.ID != history.SourceID([]byte("\ufeff"+bank)) {
		t.Fatalf("source id must cover the uploaded bytes, got %s", src.ID)
	}
	full := decode[history.QuizSource](t, f.do(http.MethodGet, "/sources/"+src.ID, ""))
	if len(full.Questions) != 2 || full.Questions[0].Statement != "What is 2+2?" {
		t.Fatalf("unexpected questions %+v", full.Questions)
	}
}

func TestUploadSource_TooLarge(t *testing.T) {
	f := newFixtureWithLimit(t, 1024)
	rec := f.upload("big.txt", strings.Repeat(bank, 100))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.hist.Sources()) != 0 {
		t.Fatalf("oversized upload must not be stored")
	}
	if rec := f.upload("small.txt", bank); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 under the limit, got %d", rec.Code)
	}
}

func TestSessionFlow_FinalMode(t *testing.T) {
	f := newFixture(t)
	src := decode[sourceInfo](t, f.upload("bank.txt", bank))

	rec := f.do(http.MethodPost, "/sessions", `{"source_id":"`+src.ID+`","mode":"all","reveal":"final"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	sess := decode[sessionView](t, rec)
	if sess.Phase != quiz.PhaseRunning || sess.Total != 2 || len(sess.Choices) != 4 {
		t.Fatalf("unexpected start view %+v", sess)
	}
	base := "/sessions/" + sess.ID

	if rec := f.do(http.MethodPost, base+"/answer", `{"label":"B"}`); rec.Code != http.StatusOK {
		t.Fatalf("answer: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, base+"/prev", ""); rec.Code != http.StatusConflict {
		t.Fatalf("prev at first question: expected 409, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, base+"/next", ""); rec.Code != http.StatusOK {
		t.Fatalf("next: expected 200, got %d", rec.Code)
	}
	// second question left unanswered; advancing from the last one completes
	rec = f.do(http.MethodPost, base+"/next", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", rec.Code)
	}
	done := decode[sessionView](t, rec)
	if done.Phase != quiz.PhaseCompleted || done.Score != 1 || done.AttemptID == "" {
		t.Fatalf("unexpected completed view %+v", done)
	}
	if done.Grade == nil || *done.Grade != 10 {
		t.Fatalf("expected grade 10, got %v", done.Grade)
	}

	// the completed session is released once its final view is returned
	if rec := f.do(http.MethodPost, base+"/finalize", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("finalize after completion: expected 404, got %d", rec.Code)
	}
	if n := f.reg.Len(); n != 0 {
		t.Fatalf("expected no live sessions after completion, got %d", n)
	}
	if n := len(f.hist.Attempts()); n != 1 {
		t.Fatalf("expected exactly one recorded attempt, got %d", n)
	}

	sums := decode[[]history.Summary](t, f.do(http.MethodGet, "/attempts", ""))
	if len(sums) != 1 || sums[0].Grade != "10.00" || sums[0].Unanswered != 1 {
		t.Fatalf("unexpected summaries %+v", sums)
	}
	review := decode[history.Review](t, f.do(http.MethodGet, "/attempts/"+done.AttemptID, ""))
	if len(review.Items) != 2 || !review.Items[0].IsCorrect || review.Items[1].Answered {
		t.Fatalf("unexpected review %+v", review)
	}

	rec = f.do(http.MethodPost, "/attempts/"+done.AttemptID+"/retake", `{"reveal":"instant"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("retake: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	retake := decode[sessionView](t, rec)
	if retake.Reveal != quiz.RevealInstant || retake.Total != 2 || retake.Origin.SourceID != src.ID {
		t.Fatalf("unexpected retake view %+v", retake)
	}

	retakeURL := "/sessions/" + retake.ID
	if rec := f.do(http.MethodDelete, retakeURL, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, retakeURL, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, retakeURL, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestCompletedSessionsDoNotAccumulate(t *testing.T) {
	f := newFixture(t)
	src := decode[sourceInfo](t, f.upload("bank.txt", bank))

	for i := 0; i < 5; i++ {
		sess := decode[sessionView](t, f.do(http.MethodPost, "/sessions", `{"source_id":"`+src.ID+`","mode":"all","reveal":"final"}`))
		rec := f.do(http.MethodPost, "/sessions/"+sess.ID+"/finalize", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("finalize: expected 200, got %d", rec.Code)
		}
		if v := decode[sessionView](t, rec); v.Phase != quiz.PhaseCompleted || v.AttemptID == "" {
			t.Fatalf("unexpected finalized view %+v", v)
		}
	}
	if n := f.reg.Len(); n != 0 {
		t.Fatalf("expected no live sessions, got %d", n)
	}
	if n := len(f.hist.Attempts()); n != 5 {
		t.Fatalf("expected 5 recorded attempts, got %d", n)
	}
}

func TestSessions_EvictIdle(t *testing.T) {
	reg := NewSessions(quiz.IdentityShuffler)
	idle := reg.create()
	fresh := reg.create()
	fresh.lastSeen.Store(time.Now().Add(3 * time.Hour).UnixNano())

	if n := reg.EvictIdle(time.Now(), time.Hour); n != 0 {
		t.Fatalf("expected nothing evicted yet, got %d", n)
	}
	if n := reg.EvictIdle(time.Now().Add(2*time.Hour), time.Hour); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, ok := reg.get(idle.id); ok {
		t.Fatalf("idle session still registered")
	}
	if _, ok := reg.get(fresh.id); !ok || reg.Len() != 1 {
		t.Fatalf("recently used session was evicted")
	}
}

func TestSessions_RunEvictionStopsWithContext(t *testing.T) {
	reg := NewSessions(quiz.IdentityShuffler)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.RunEviction(ctx, time.Hour, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("eviction loop did not stop after cancel")
	}

	// disabled TTL returns at once
	reg.RunEviction(context.Background(), 0, time.Minute)
}

func TestSessionFlow_InstantMode(t *testing.T) {
	f := newFixture(t)
	src := decode[sourceInfo](t, f.upload("bank.txt", bank))
	sess := decode[sessionView](t, f.do(http.MethodPost, "/sessions", `{"source_id":"`+src.ID+`","mode":"all","reveal":"instant"}`))
	base := "/sessions/" + sess.ID

	if rec := f.do(http.MethodPost, base+"/next", ""); rec.Code != http.StatusConflict {
		t.Fatalf("next before answering: expected 409, got %d", rec.Code)
	}
	v := decode[sessionView](t, f.do(http.MethodPost, base+"/answer", `{"label":"C"}`))
	if v.Feedback == nil || v.Feedback.IsCorrect || v.Feedback.CorrectShown != "B" || v.Feedback.CorrectText != "4" {
		t.Fatalf("unexpected feedback %+v", v.Feedback)
	}
	if v.Progress != 50 {
		t.Fatalf("expected 50%% progress with feedback shown, got %d", v.Progress)
	}
	if rec := f.do(http.MethodPost, base+"/answer", `{"label":"B"}`); rec.Code != http.StatusConflict {
		t.Fatalf("second answer while feedback shown: expected 409, got %d", rec.Code)
	}
}

func TestStartSession_Validation(t *testing.T) {
	f := newFixture(t)
	src := decode[sourceInfo](t, f.upload("bank.txt", bank))

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"bad mode", `{"source_id":"` + src.ID + `","mode":"30","reveal":"final"}`, http.StatusBadRequest},
		{"bad reveal", `{"source_id":"` + src.ID + `","mode":"all","reveal":"later"}`, http.StatusBadRequest},
		{"missing source", `{"source_id":"src_nope","mode":"all","reveal":"final"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := f.do(http.MethodPost, "/sessions", tc.body); rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestAdminReset(t *testing.T) {
	f := newFixture(t)
	f.upload("bank.txt", bank)

	if rec := f.do(http.MethodPost, "/admin/history/reset", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/history/reset", nil)
	req.SetBasicAuth("admin", "pw")
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(f.hist.Sources()) != 0 {
		t.Fatalf("expected empty history after reset")
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
