package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"activity-intake/internal/auth"
	"activity-intake/internal/session"
)

func newTestService() (*Service, *session.MemoryStore, *MemoryRepo) {
	store := session.NewMemoryStore(time.Hour)
	repo := NewMemoryRepo()
	return NewService(store, repo), store, repo
}

func validRequest() Request {
	return Request{
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
		Payload:   Payload{Date: "2024-01-01T00:00:00Z", Path: "/home"},
	}
}

func TestRecord_AnonymousVisitor(t *testing.T) {
	svc, _, repo := newTestService()

	res, err := svc.Record(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.SessionIsNew {
		t.Fatalf("expected new session on first contact")
	}

	recs := repo.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.UserID != nil {
		t.Fatalf("anonymous caller must have nil user, got %v", *rec.UserID)
	}
	if rec.SessionID == nil || *rec.SessionID != res.SessionID {
		t.Fatalf("expected session %q on record", res.SessionID)
	}
	if rec.Path != "/home" || rec.Referrer != "" {
		t.Fatalf("unexpected fields: %+v", rec)
	}
	if rec.IPAddress != "203.0.113.9" {
		t.Fatalf("expected ip captured, got %q", rec.IPAddress)
	}
}

func TestRecord_AuthenticatedVisitor(t *testing.T) {
	svc, _, repo := newTestService()

	ctx := auth.WithUser(context.Background(), "user-42")
	if _, err := svc.Record(ctx, validRequest()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	rec := repo.Records()[0]
	if rec.UserID == nil || *rec.UserID != "user-42" {
		t.Fatalf("expected user-42, got %v", rec.UserID)
	}
}

func TestRecord_SessionInfoWrittenOnceWithFirstUserAgent(t *testing.T) {
	svc, _, repo := newTestService()
	ctx := context.Background()

	first := validRequest()
	first.UserAgent = "first-agent"
	res, err := svc.Record(ctx, first)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	second := validRequest()
	second.UserAgent = "second-agent"
	second.SessionCredential = res.SessionID
	res2, err := svc.Record(ctx, second)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res2.SessionIsNew {
		t.Fatalf("expected existing session")
	}
	if res2.SessionID != res.SessionID {
		t.Fatalf("expected stable session id")
	}

	infos := repo.SessionInfos()
	if len(infos) != 1 {
		t.Fatalf("expected exactly one session info row, got %d", len(infos))
	}
	if infos[res.SessionID].UserAgent != "first-agent" {
		t.Fatalf("expected first-seen user agent, got %q", infos[res.SessionID].UserAgent)
	}
}

func TestRecord_RejectionWritesNothing(t *testing.T) {
	svc, _, repo := newTestService()

	_, err := svc.Record(context.Background(), Request{Payload: Payload{Path: "/home"}})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.Records()) != 0 {
		t.Fatalf("rejected request must not create records")
	}
}

func TestRecord_SessionSurvivesRejection(t *testing.T) {
	// Validation failures do not roll back session creation; the
	// SessionInfo row for the fresh session still lands.
	svc, _, repo := newTestService()

	res, err := svc.Record(context.Background(), Request{UserAgent: "ua", Payload: Payload{}})
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if !res.SessionIsNew || res.SessionID == "" {
		t.Fatalf("expected session created before validation, got %+v", res)
	}
	if len(repo.SessionInfos()) != 1 {
		t.Fatalf("expected session info row despite rejection")
	}
}

func TestRecord_SessionFailureDowngradesToSessionless(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	store.Err = errors.New("redis down")
	repo := NewMemoryRepo()
	svc := NewService(store, repo)

	res, err := svc.Record(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("session failure must not fail the request: %v", err)
	}
	if res.SessionID != "" || res.SessionIsNew {
		t.Fatalf("expected sessionless result, got %+v", res)
	}

	rec := repo.Records()[0]
	if rec.SessionID != nil {
		t.Fatalf("expected nil session on record")
	}
}

func TestRecord_SessionInfoFailureIsNonFatal(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	repo := NewMemoryRepo()
	repo.SessionInfoErr = errors.New("db hiccup")
	svc := NewService(store, repo)

	if _, err := svc.Record(context.Background(), validRequest()); err != nil {
		t.Fatalf("session info failure must not fail the request: %v", err)
	}
	if len(repo.Records()) != 1 {
		t.Fatalf("expected record despite session info failure")
	}
}

func TestRecord_StorageFaultSurfaces(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	repo := NewMemoryRepo()
	repo.InsertErr = errors.New("db down")
	svc := NewService(store, repo)

	_, err := svc.Record(context.Background(), validRequest())
	if err == nil {
		t.Fatalf("expected storage error")
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		t.Fatalf("storage fault must not look like a validation error")
	}
}

func TestRecord_OverlongUserAgentTruncatedInSessionInfo(t *testing.T) {
	svc, _, repo := newTestService()

	req := validRequest()
	for len(req.UserAgent) <= UserAgentMaxLen {
		req.UserAgent += req.UserAgent
	}
	res, err := svc.Record(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := repo.SessionInfos()[res.SessionID].UserAgent; len(got) != UserAgentMaxLen {
		t.Fatalf("expected user agent truncated to %d, got %d", UserAgentMaxLen, len(got))
	}
}
