package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/question"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

// Store owns the process-wide history. The in-memory state is replaced first
// and then written through to the kv medium; write failures are logged and
// otherwise ignored.
type Store struct {
	kv  storage.KV
	key string
	log *logger.Logger
	now func() time.Time

	mu    sync.RWMutex
	state State
}

func NewStore(kv storage.KV, key string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{kv: kv, key: key, log: log, now: time.Now, state: Empty()}
}

// Load reads the persisted record into memory. Any read or decode problem
// leaves the store with an empty state.
func (s *Store) Load(ctx context.Context) State {
	st := Empty()
	raw, found, err := s.kv.Get(ctx, s.key)
	switch {
	case err != nil:
		s.log.Warn("history load failed", "key", s.key, "error", err)
	case found:
		st = Decode([]byte(raw))
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.log.Debug("history loaded", "sources", len(st.Sources), "attempts", len(st.Attempts))
	return st
}

// WriteTimeout bounds one persistence write.
const WriteTimeout = 10 * time.Second

// Save writes st to the medium. Failures are swallowed. The write ignores
// cancellation of ctx: once the in-memory state has changed, a caller going
// away must not keep it from reaching the medium.
func (s *Store) Save(ctx context.Context, st State) {
	b, err := Encode(st)
	if err != nil {
		s.log.Warn("history encode failed", "error", err)
		return
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), WriteTimeout)
	defer cancel()
	if err := s.kv.Set(wctx, s.key, string(b)); err != nil {
		s.log.Warn("history save failed", "key", s.key, "error", err)
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) replace(ctx context.Context, fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := fn(s.state)
	s.state = st
	// persisted under the lock so writes reach the medium in mutation order
	s.Save(ctx, st)
	return st
}

// AddSource records the bank parsed from raw and returns the stored entry,
// which is the existing one when the same content was uploaded before.
func (s *Store) AddSource(ctx context.Context, raw []byte, fileName string, questions []question.Question) QuizSource {
	src := NewSource(raw, fileName, questions, s.now())
	st := s.replace(ctx, func(cur State) State { return RecordSource(cur, src) })
	return st.Sources[src.ID]
}

func (s *Store) AddAttempt(ctx context.Context, a QuizAttempt) {
	s.replace(ctx, func(cur State) State { return RecordAttempt(cur, a) })
}

// Reset drops all sources and attempts.
func (s *Store) Reset(ctx context.Context) {
	s.replace(ctx, func(State) State { return Empty() })
}

// Sources lists sources newest first by creation time.
func (s *Store) Sources() []QuizSource {
	st := s.State()
	out := make([]QuizSource, 0, len(st.Sources))
	for _, src := range st.Sources {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Attempts lists attempts in stored order, newest first.
func (s *Store) Attempts() []QuizAttempt {
	st := s.State()
	return append([]QuizAttempt(nil), st.Attempts...)
}

func (s *Store) Source(id string) (QuizSource, bool) {
	src, ok := s.State().Sources[id]
	return src, ok
}

func (s *Store) Attempt(id string) (QuizAttempt, bool) {
	for _, a := range s.State().Attempts {
		if a.ID == id {
			return a, true
		}
	}
	return QuizAttempt{}, false
}
