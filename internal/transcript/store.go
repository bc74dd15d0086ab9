// Package transcript persists conversation transcripts in SQLite.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/db"
	"github.com/ziadkadry99/shopassist/internal/session"
)

// Store keeps one row per appended message. The full message is kept in
// the payload column; sender, type and content are copied out for queries.
type Store struct {
	db *db.DB
}

// NewStore creates a new transcript store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Append adds m after the session's last message, creating the session row
// on first use.
func (s *Store) Append(ctx context.Context, sid session.ID, m chat.Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		string(sid), now, now,
	)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, seq, sender, type, content, payload, created_at)
		 SELECT ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?
		 FROM chat_messages WHERE session_id = ?`,
		m.ID, string(sid), string(m.Sender), string(m.Type), m.Content, string(payload), m.Timestamp, string(sid),
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return tx.Commit()
}

// Load returns the session's messages in append order. An unknown session
// has an empty transcript.
func (s *Store) Load(ctx context.Context, sid session.ID) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM chat_messages WHERE session_id = ? ORDER BY seq ASC`,
		string(sid),
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		var m chat.Message
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, fmt.Errorf("decoding message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Delete removes the session and its transcript. Either both go or neither.
func (s *Store) Delete(ctx context.Context, sid session.ID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = ?`, string(sid)); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, string(sid)); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return tx.Commit()
}

// Summary describes one stored session.
type Summary struct {
	SessionID session.ID `json:"session_id"`
	Messages  int        `json:"messages"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ListSessions returns stored sessions, most recently active first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, COUNT(m.id), s.updated_at
		 FROM chat_sessions s LEFT JOIN chat_messages m ON m.session_id = s.id
		 GROUP BY s.id ORDER BY s.updated_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var id string
		if err := rows.Scan(&id, &sum.Messages, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sum.SessionID = session.ID(id)
		out = append(out, sum)
	}
	return out, rows.Err()
}
