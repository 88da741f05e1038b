package intake

import (
	"context"
	"sync"
)

// MemoryRepo is a simple in-memory append-only repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu       sync.Mutex
	records  []ActivityRecord
	sessions map[string]SessionInfo

	// InsertErr, when set, is returned by InsertActivity. Lets tests
	// exercise the storage-fault path.
	InsertErr error
	// SessionInfoErr, when set, is returned by EnsureSessionInfo.
	SessionInfoErr error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{sessions: make(map[string]SessionInfo)}
}

func (r *MemoryRepo) InsertActivity(ctx context.Context, rec ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InsertErr != nil {
		return r.InsertErr
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *MemoryRepo) EnsureSessionInfo(ctx context.Context, sessionID, userAgent string) (SessionInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SessionInfoErr != nil {
		return SessionInfo{}, r.SessionInfoErr
	}
	if existing, ok := r.sessions[sessionID]; ok {
		return existing, nil
	}
	info := SessionInfo{SessionID: sessionID, UserAgent: userAgent}
	r.sessions[sessionID] = info
	return info, nil
}

func (r *MemoryRepo) Records() []ActivityRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ActivityRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *MemoryRepo) SessionInfos() map[string]SessionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]SessionInfo, len(r.sessions))
	for k, v := range r.sessions {
		out[k] = v
	}
	return out
}
