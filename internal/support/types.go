package support

import (
	"context"
	"errors"
	"time"

	"github.com/ziadkadry99/shopassist/internal/session"
)

// ErrInvalidEmail is returned before any write when the reply address is malformed.
var ErrInvalidEmail = errors.New("invalid email address")

// IssueType classifies a support request.
type IssueType string

const (
	IssueDeliveryDelay IssueType = "delivery-delay"
	IssueReturnRequest IssueType = "return-request"
	IssuePaymentIssue  IssueType = "payment-issue"
	IssueProductDefect IssueType = "product-defect"
	IssueMissingItem   IssueType = "missing-item"
	IssueGeneral       IssueType = "general"
)

// Context is what the conversation knows when a support email is drafted.
// Empty fields are left out of the templates.
type Context struct {
	OrderID     string `json:"order_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	UserMessage string `json:"user_message,omitempty"`
}

// Email is a generated subject and body.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Ticket is a submitted support request. Tickets are never updated.
type Ticket struct {
	ID          string     `json:"id" bson:"_id"`
	SessionID   session.ID `json:"session_id" bson:"session_id"`
	TicketType  IssueType  `json:"ticket_type" bson:"ticket_type"`
	Subject     string     `json:"subject" bson:"subject"`
	Body        string     `json:"body" bson:"body"`
	OrderID     string     `json:"order_id,omitempty" bson:"order_id,omitempty"`
	ProductName string     `json:"product_name,omitempty" bson:"product_name,omitempty"`
	Email       string     `json:"email" bson:"email"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}

// TicketStore persists tickets. Implementations validate the email first.
type TicketStore interface {
	CreateTicket(ctx context.Context, t Ticket) (*Ticket, error)
	ListTickets(ctx context.Context, sid session.ID) ([]Ticket, error)
}
