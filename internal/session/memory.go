package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a simple in-memory session store useful for tests.
// It is not intended for production use.
type MemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	ttl     time.Duration
	clock   func() time.Time

	// Err, when set, is returned by every call. Lets tests exercise the
	// sessionless downgrade path.
	Err error
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		expires: make(map[string]time.Time),
		ttl:     ttl,
		clock:   time.Now,
	}
}

func (s *MemoryStore) ResolveOrCreate(ctx context.Context, credential string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return "", false, s.Err
	}

	now := s.clock()
	if credential != "" {
		if exp, ok := s.expires[credential]; ok && exp.After(now) {
			s.expires[credential] = now.Add(s.ttl)
			return credential, false, nil
		}
	}

	id := uuid.NewString()
	s.expires[id] = now.Add(s.ttl)
	return id, true, nil
}

// SetClock replaces the time source for expiry tests.
func (s *MemoryStore) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// Len reports how many sessions exist, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}
