package support

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shopassist/internal/db"
	"github.com/ziadkadry99/shopassist/internal/session"
	"github.com/ziadkadry99/shopassist/internal/validation"
)

// ValidateEmail rejects anything that is not a plausible reply address.
func ValidateEmail(addr string) error {
	if !validation.Email(strings.TrimSpace(addr)) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, addr)
	}
	return nil
}

// prepare validates t and fills the fields every backend assigns.
func prepare(t Ticket) (Ticket, error) {
	if err := ValidateEmail(t.Email); err != nil {
		return Ticket{}, err
	}
	t.Email = strings.TrimSpace(t.Email)
	if !t.TicketType.Valid() {
		t.TicketType = IssueGeneral
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = time.Now().UTC()
	return t, nil
}

// Store persists tickets in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a new ticket store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateTicket validates and inserts a ticket.
func (s *Store) CreateTicket(ctx context.Context, t Ticket) (*Ticket, error) {
	t, err := prepare(t)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO support_tickets (id, session_id, ticket_type, subject, body, order_id, product_name, email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.SessionID), string(t.TicketType), t.Subject, t.Body,
		nullable(t.OrderID), nullable(t.ProductName), t.Email, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating support ticket: %w", err)
	}
	return &t, nil
}

// ListTickets returns a session's tickets, oldest first.
func (s *Store) ListTickets(ctx context.Context, sid session.ID) ([]Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, ticket_type, subject, body, order_id, product_name, email, created_at
		 FROM support_tickets WHERE session_id = ? ORDER BY created_at, rowid`, string(sid))
	if err != nil {
		return nil, fmt.Errorf("querying support tickets: %w", err)
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		var orderID, productName sql.NullString
		var sessionID, ticketType string
		if err := rows.Scan(&t.ID, &sessionID, &ticketType, &t.Subject, &t.Body,
			&orderID, &productName, &t.Email, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning support ticket: %w", err)
		}
		t.SessionID = session.ID(sessionID)
		t.TicketType = IssueType(ticketType)
		t.OrderID = orderID.String
		t.ProductName = productName.String
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
