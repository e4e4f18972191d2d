package http

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

// liveSession guards one quiz.Session, which is not safe for concurrent use.
type liveSession struct {
	mu       sync.Mutex
	id       string
	sess     *quiz.Session
	recorded bool
	lastSeen atomic.Int64 // unix nanos
}

// Sessions is the in-memory registry of running sessions. Sessions are never
// persisted; a session leaves the registry when it completes, when it is
// abandoned, or when it sits idle past the eviction TTL.
type Sessions struct {
	mu      sync.RWMutex
	byID    map[string]*liveSession
	shuffle quiz.Shuffler
}

// NewSessions returns an empty registry. A nil shuffler uses the default.
func NewSessions(s quiz.Shuffler) *Sessions {
	return &Sessions{byID: map[string]*liveSession{}, shuffle: s}
}

func (s *Sessions) create() *liveSession {
	ls := &liveSession{id: uuid.NewString(), sess: quiz.NewSession(s.shuffle)}
	ls.lastSeen.Store(time.Now().UnixNano())
	s.mu.Lock()
	s.byID[ls.id] = ls
	s.mu.Unlock()
	return ls
}

func (s *Sessions) get(id string) (*liveSession, bool) {
	s.mu.RLock()
	ls, ok := s.byID[id]
	s.mu.RUnlock()
	if ok {
		ls.lastSeen.Store(time.Now().UnixNano())
	}
	return ls, ok
}

func (s *Sessions) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	return true
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// EvictIdle drops sessions not touched within ttl of now and returns how many
// were dropped.
func (s *Sessions) EvictIdle(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl).UnixNano()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, ls := range s.byID {
		if ls.lastSeen.Load() < cutoff {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

// RunEviction calls EvictIdle every interval until ctx is done.
func (s *Sessions) RunEviction(ctx context.Context, ttl, every time.Duration) {
	if ttl <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.EvictIdle(now, ttl)
		}
	}
}
