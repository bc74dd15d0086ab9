package chat

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/shopassist/internal/cart"
	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/logging"
	"github.com/ziadkadry99/shopassist/internal/metrics"
	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/orders"
	"github.com/ziadkadry99/shopassist/internal/session"
	"github.com/ziadkadry99/shopassist/internal/support"
)

var (
	// ErrInputDisabled is returned for free text in a flow that does not take it.
	ErrInputDisabled = errors.New("text input is disabled in this flow")
	// ErrEmptyText is returned for blank free text.
	ErrEmptyText = errors.New("text is empty")
	// ErrNoProductSelected is returned when adding "the selected product" outside a detail view.
	ErrNoProductSelected = errors.New("no product selected")
	// ErrNoSupportDraft is returned when sending without a support draft in progress.
	ErrNoSupportDraft = errors.New("no support email in progress")
	// ErrConversationClosed is returned once a conversation has been torn down.
	ErrConversationClosed = errors.New("conversation closed")
)

// Cart is the per-session cart the conversation mutates.
type Cart interface {
	Fetch(ctx context.Context, sid session.ID) (*cart.Summary, error)
	Add(ctx context.Context, sid session.ID, productID string) (*cart.Summary, error)
	Remove(ctx context.Context, sid session.ID, itemID string) (*cart.Summary, error)
	UpdateQuantity(ctx context.Context, sid session.ID, itemID string, quantity int) (*cart.Summary, error)
	Clear(ctx context.Context, sid session.ID) error
}

// TranscriptStore persists appended messages.
type TranscriptStore interface {
	Append(ctx context.Context, sid session.ID, m Message) error
	Load(ctx context.Context, sid session.ID) ([]Message, error)
	Delete(ctx context.Context, sid session.ID) error
}

// StateStore persists the conversation state between handler runs.
type StateStore interface {
	Load(ctx context.Context, sid session.ID) (*State, error)
	Save(ctx context.Context, sid session.ID, s State) error
	Delete(ctx context.Context, sid session.ID) error
}

// Notifier receives transient notifications raised by the conversation.
type Notifier interface {
	Notify(ctx context.Context, t notifications.Toast)
}

// Deps are the collaborators a conversation talks to. Catalog, Orders, Cart
// and Tickets are required; the rest may be nil.
type Deps struct {
	Catalog     catalog.Reader
	Orders      orders.Lookup
	Cart        Cart
	Tickets     support.TicketStore
	Transcripts TranscriptStore
	States      StateStore
	Notifier    Notifier
	Metrics     *metrics.Recorder
	Log         logrus.FieldLogger
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	return d
}

// Options tune presentation details.
type Options struct {
	// TypingDelay is how long the typing indicator shows before a bot reply.
	TypingDelay  time.Duration
	SupportPhone string
}

// DefaultOptions returns the stock presentation settings.
func DefaultOptions() Options {
	return Options{
		TypingDelay:  600 * time.Millisecond,
		SupportPhone: "1-800-SHOP-HELP",
	}
}
