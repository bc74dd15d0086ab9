package widget

import (
	"github.com/ziadkadry99/shopassist/internal/cart"
	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/session"
	"github.com/ziadkadry99/shopassist/internal/support"
)

// messageView is a transcript message with its content rendered to HTML.
type messageView struct {
	chat.Message
	ContentHTML string `json:"content_html"`
}

func viewMessage(m chat.Message) messageView {
	return messageView{Message: m, ContentHTML: renderHTML(m.Content)}
}

// snapshotView is the body of every session endpoint.
type snapshotView struct {
	SessionID session.ID      `json:"session_id"`
	State     chat.State      `json:"state"`
	Typing    bool            `json:"typing"`
	Busy      bool            `json:"busy"`
	Messages  []messageView   `json:"messages"`
	Cart      *cart.Summary   `json:"cart,omitempty"`
	Ticket    *support.Ticket `json:"ticket,omitempty"`
}

// Requests.

type openRequest struct {
	SessionID string `json:"session_id"`
}

type optionRequest struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type textRequest struct {
	Text string `json:"text"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// socketRequest is an incoming WebSocket frame.
type socketRequest struct {
	Type      string `json:"type"` // option, text, details, add_to_cart, restart
	Value     string `json:"value,omitempty"`
	Label     string `json:"label,omitempty"`
	Text      string `json:"text,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

// socketFrame is an outgoing WebSocket frame: a conversation event, the
// initial snapshot, an error, or a reset telling the client to reconnect.
type socketFrame struct {
	Type      string               `json:"type"`
	SessionID session.ID           `json:"session_id"`
	Message   *messageView         `json:"message,omitempty"`
	Typing    *bool                `json:"typing,omitempty"`
	State     *chat.State          `json:"state,omitempty"`
	Toast     *notifications.Toast `json:"toast,omitempty"`
	Snapshot  *snapshotView        `json:"snapshot,omitempty"`
	Error     string               `json:"error,omitempty"`
}

func eventFrame(e chat.Event) socketFrame {
	f := socketFrame{Type: string(e.Type), SessionID: e.SessionID, State: e.State, Toast: e.Toast}
	switch e.Type {
	case chat.EventMessage:
		if e.Message != nil {
			v := viewMessage(*e.Message)
			f.Message = &v
		}
	case chat.EventTyping:
		typing := e.Typing
		f.Typing = &typing
	}
	return f
}
