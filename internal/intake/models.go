package intake

import "time"

// Field limits match the analytics schema; the validator enforces them
// before anything reaches storage.
const (
	PathMaxLen      = 1000
	ReferrerMaxLen  = 160
	IPAddressMaxLen = 45
	UserAgentMaxLen = 1000
)

// ReferrerSentinel is the magic value frontends send when the page view is
// known not to be the first of the session. It normalizes to "no referrer".
const ReferrerSentinel = "NOT_FIRST_PAGE"

// ActivityRecord is an immutable, append-only browsing event.
//
// Invariants:
// - Records are never updated or deleted; retention is an external concern.
// - Path is non-empty and OccurredAt is valid for every persisted record.
// - UserID and SessionID are independently optional: nil UserID means an
//   anonymous visitor, nil SessionID means no session could be associated.
type ActivityRecord struct {
	ID        string  `json:"id" db:"id"`
	UserID    *string `json:"user_id,omitempty" db:"user_id"`
	SessionID *string `json:"session_id,omitempty" db:"session_id"`

	// IPAddress is the caller's address as observed by the server; may be empty.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// OccurredAt is the caller-supplied event time, not server time.
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`

	Path     string `json:"path" db:"path"`
	Referrer string `json:"referrer,omitempty" db:"referrer"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SessionInfo captures one user-agent string per session, at first contact.
// The row is written at most once and never updated, even if later requests
// from the same session present a different user-agent.
type SessionInfo struct {
	SessionID string `json:"session_id" db:"session_id"`
	UserAgent string `json:"user_agent" db:"user_agent"`
}

// ValidatedFields is the normalized payload after validation; empty
// Referrer means "no referrer".
type ValidatedFields struct {
	OccurredAt time.Time
	Path       string
	Referrer   string
}
