package intake

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// NOTE: This repository assumes the following tables exist:
//
// CREATE TABLE activities (
//     id          uuid PRIMARY KEY,
//     user_id     text,
//     session_id  text,
//     ip_address  varchar(45) NOT NULL DEFAULT '',
//     occurred_at timestamptz NOT NULL,
//     path        varchar(1000) NOT NULL,
//     referrer    varchar(160) NOT NULL DEFAULT '',
//     created_at  timestamptz NOT NULL
// );
//
// CREATE TABLE session_info (
//     session_id text PRIMARY KEY,
//     user_agent varchar(1000) NOT NULL DEFAULT ''
// );
//
// activities is INSERT-only; no Update/Delete methods are provided.
// The session_info primary key is the source of truth for the
// at-most-one-row-per-session guarantee across worker processes.

// Repository is the persistence contract for the intake service.
type Repository interface {
	InsertActivity(ctx context.Context, rec ActivityRecord) error
	EnsureSessionInfo(ctx context.Context, sessionID, userAgent string) (SessionInfo, error)
}

const uniqueViolation = "23505"

// PostgresRepo stores activity records and session info in Postgres.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) InsertActivity(ctx context.Context, rec ActivityRecord) error {
	const q = `
INSERT INTO activities (id, user_id, session_id, ip_address, occurred_at, path, referrer, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID,
		rec.UserID,
		rec.SessionID,
		rec.IPAddress,
		rec.OccurredAt,
		rec.Path,
		rec.Referrer,
		rec.CreatedAt,
	)
	return err
}

// EnsureSessionInfo inserts the session's first-seen user agent. A concurrent
// first-contact writer that loses the insert race reads the winner's row back
// instead of propagating the uniqueness violation.
func (r *PostgresRepo) EnsureSessionInfo(ctx context.Context, sessionID, userAgent string) (SessionInfo, error) {
	const q = `INSERT INTO session_info (session_id, user_agent) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, q, sessionID, userAgent); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return r.getSessionInfo(ctx, sessionID)
		}
		return SessionInfo{}, err
	}
	return SessionInfo{SessionID: sessionID, UserAgent: userAgent}, nil
}

func (r *PostgresRepo) getSessionInfo(ctx context.Context, sessionID string) (SessionInfo, error) {
	const q = `SELECT session_id, user_agent FROM session_info WHERE session_id = $1`
	var info SessionInfo
	if err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&info.SessionID, &info.UserAgent); err != nil {
		return SessionInfo{}, err
	}
	return info, nil
}
