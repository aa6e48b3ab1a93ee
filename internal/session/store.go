package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mentora-app/mentora/internal/database"
)

// Validation errors for write operations.
var (
	ErrEmptyTitle  = errors.New("session title is empty")
	ErrInvalidRole = errors.New("invalid message role")
)

// Message roles accepted by AppendMessage. The check constraint on the
// messages table mirrors this list.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

const sessionColumns = "id, user_id, title, archived, created_at, updated_at"
const messageColumns = "id, session_id, role, content, created_at"

// Store persists sessions and messages. All queries are owner-scoped:
// a session id from another user behaves like a missing one.
//
// Store is safe for concurrent use; all state lives in PostgreSQL.
type Store struct {
	q      database.Querier
	logger *slog.Logger
}

// New creates a session store on top of q, which is a pool in
// production and a transaction when the caller composes atomic flows.
func New(q database.Querier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{q: q, logger: logger}
}

// WithQuerier returns a copy of the store bound to q. Services use it
// to run store methods inside their own transaction.
func (s *Store) WithQuerier(q database.Querier) *Store {
	return &Store{q: q, logger: s.logger}
}

// Create starts a new session. An empty title is allowed; it gets
// derived from the first message later.
func (s *Store) Create(ctx context.Context, userID uuid.UUID, title string) (*Session, error) {
	row := s.q.QueryRow(ctx,
		`INSERT INTO sessions (user_id, title) VALUES ($1, $2) RETURNING `+sessionColumns,
		userID, strings.TrimSpace(title))
	sess, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", database.MapError(err))
	}

	s.logger.Debug("created session", "id", sess.ID, "user_id", userID)
	return sess, nil
}

// Get returns the session if it exists and belongs to the user.
func (s *Store) Get(ctx context.Context, id, userID uuid.UUID) (*Session, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 AND user_id = $2`,
		id, userID)
	sess, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// List returns the user's sessions ordered by recent activity.
// Archived sessions are skipped unless includeArchived is set.
func (s *Store) List(ctx context.Context, userID uuid.UUID, includeArchived bool, limit, offset int32) ([]*Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.q.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND ($2 OR NOT archived)
		 ORDER BY updated_at DESC, id DESC
		 LIMIT $3 OFFSET $4`,
		userID, includeArchived, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*Session, 0, limit)
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Title, &sess.Archived, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// Rename sets a new title.
func (s *Store) Rename(ctx context.Context, id, userID uuid.UUID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	tag, err := s.q.Exec(ctx,
		`UPDATE sessions SET title = $1, updated_at = now() WHERE id = $2 AND user_id = $3`,
		title, id, userID)
	if err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Archive hides the session from the sidebar; unarchiving restores it.
func (s *Store) Archive(ctx context.Context, id, userID uuid.UUID, archived bool) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE sessions SET archived = $1, updated_at = now() WHERE id = $2 AND user_id = $3`,
		archived, id, userID)
	if err != nil {
		return fmt.Errorf("archive session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the session and all its messages via CASCADE.
func (s *Store) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted session", "id", id)
	return nil
}

// AppendMessage stores one turn and bumps the session's updated_at.
// Run it through WithQuerier inside a transaction when it must be
// atomic with other writes.
func (s *Store) AppendMessage(ctx context.Context, sessionID uuid.UUID, role, content string) (*Message, error) {
	if role != RoleUser && role != RoleModel {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	row := s.q.QueryRow(ctx,
		`INSERT INTO messages (session_id, role, content) VALUES ($1, $2, $3) RETURNING `+messageColumns,
		sessionID, role, content)

	var msg Message
	if err := row.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("append message: %w", database.MapError(err))
	}

	if _, err := s.q.Exec(ctx,
		`UPDATE sessions SET updated_at = now() WHERE id = $1`, sessionID); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return &msg, nil
}

// Messages returns the last limit messages in chronological order.
func (s *Store) Messages(ctx context.Context, sessionID uuid.UUID, limit int32) ([]*Message, error) {
	limit = NormalizeHistoryLimit(limit)

	rows, err := s.q.Query(ctx,
		`SELECT `+messageColumns+` FROM (
		     SELECT `+messageColumns+` FROM messages
		     WHERE session_id = $1
		     ORDER BY created_at DESC, id DESC
		     LIMIT $2
		 ) recent
		 ORDER BY created_at ASC, id ASC`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*Message, 0, limit)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func scanSession(row pgx.Row) (*Session, error) {
	var sess Session
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.Title, &sess.Archived, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}
