package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"activity-intake/internal/auth"
	"activity-intake/internal/observability"
	"activity-intake/internal/session"
	"activity-intake/pkg/logger"

	"github.com/google/uuid"
)

// Request carries everything the intake flow consumes from one HTTP request.
type Request struct {
	SessionCredential string
	IPAddress         string
	UserAgent         string
	RefererHeader     string
	Payload           Payload
}

// Result reports what one accepted (or partially processed) request did.
// SessionID may be set even when Record rejects the payload: session
// creation precedes validation and is not rolled back.
type Result struct {
	Record       ActivityRecord
	SessionID    string
	SessionIsNew bool
}

// Service runs the intake flow: resolve/create session, record its
// user-agent on first contact, resolve identity, validate fields, persist.
type Service struct {
	sessions session.Store
	repo     Repository
	clock    func() time.Time
}

func NewService(sessions session.Store, repo Repository) *Service {
	return &Service{sessions: sessions, repo: repo, clock: time.Now}
}

// Record processes one submitted activity event.
//
// The acting identity comes from ctx (auth.UserID); an anonymous caller
// yields a record with a nil user reference. A *ValidationError return means
// the payload was rejected and nothing was persisted except, possibly, the
// session and its SessionInfo row; sessions are cheap and not part of the
// transactional unit. Any other error is a storage fault on the record insert.
func (s *Service) Record(ctx context.Context, req Request) (Result, error) {
	res := Result{}

	sessionID, isNew, err := s.sessions.ResolveOrCreate(ctx, req.SessionCredential)
	if err != nil {
		// Best-effort association: a failed resolution downgrades the
		// request to sessionless instead of failing it.
		logger.From(ctx).Warn("session resolution failed, recording sessionless", "err", err)
		sessionID, isNew = "", false
	}
	res.SessionID = sessionID
	res.SessionIsNew = isNew

	if isNew {
		observability.RecordSessionCreated()
		ua := truncateRunes(req.UserAgent, UserAgentMaxLen)
		if _, err := s.repo.EnsureSessionInfo(ctx, sessionID, ua); err != nil {
			logger.From(ctx).Warn("session info write failed", "err", err, "session_id", sessionID)
		}
	}

	fields, err := ValidateFields(req.Payload, req.RefererHeader)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			observability.RecordRejected(vErr.Field)
		}
		return res, err
	}

	rec := ActivityRecord{
		ID:         uuid.NewString(),
		IPAddress:  truncateRunes(req.IPAddress, IPAddressMaxLen),
		OccurredAt: fields.OccurredAt,
		Path:       fields.Path,
		Referrer:   fields.Referrer,
		CreatedAt:  s.clock().UTC(),
	}
	if userID, ok := auth.UserID(ctx); ok {
		rec.UserID = &userID
	}
	if sessionID != "" {
		rec.SessionID = &sessionID
	}

	if err := s.repo.InsertActivity(ctx, rec); err != nil {
		return res, fmt.Errorf("activity insert failed: %w", err)
	}

	observability.RecordAccepted()
	res.Record = rec
	return res, nil
}
