package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/shopassist/internal/cart"
	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/db"
	"github.com/ziadkadry99/shopassist/internal/orders"
	"github.com/ziadkadry99/shopassist/internal/session"
	"github.com/ziadkadry99/shopassist/internal/support"
)

const testSession session.ID = "session_1700000000000_testsession1"

var errUnavailable = errors.New("service unavailable")

var testProducts = []catalog.Product{
	{ID: "lap-air", Name: "MacBook Air M2", Price: 999, Category: "laptop", Rating: 4.8},
	{ID: "lap-student", Name: "Dell Inspiron Student Edition", Price: 699, Category: "laptop", Rating: 4.3},
	{ID: "lap-pro", Name: "ThinkPad X1 Carbon Pro", Price: 1299, Category: "laptop", Rating: 4.6},
	{ID: "ph-pixel", Name: "Google Pixel 8", Price: 699, Category: "phone", Rating: 4.5},
}

// recordingCatalog remembers the filters it was asked for.
type recordingCatalog struct {
	catalog.Reader
	mu      sync.Mutex
	filters []catalog.Filter
	fail    bool
}

func (r *recordingCatalog) GetFilteredProducts(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	r.filters = append(r.filters, f)
	fail := r.fail
	r.mu.Unlock()
	if fail {
		return nil, errUnavailable
	}
	return r.Reader.GetFilteredProducts(ctx, f)
}

func (r *recordingCatalog) lastFilter() catalog.Filter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filters[len(r.filters)-1]
}

// failingCart fails every mutation.
type failingCart struct {
	Cart
}

func (failingCart) Add(context.Context, session.ID, string) (*cart.Summary, error) {
	return nil, errUnavailable
}

func (failingCart) Remove(context.Context, session.ID, string) (*cart.Summary, error) {
	return nil, errUnavailable
}

type failingTickets struct {
	support.TicketStore
}

func (failingTickets) CreateTicket(context.Context, support.Ticket) (*support.Ticket, error) {
	return nil, errUnavailable
}

type failingOrders struct{}

func (failingOrders) GetOrderByOrderID(context.Context, string) (*orders.Order, error) {
	return nil, errUnavailable
}

// eventLog collects published events.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) all() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func (l *eventLog) toasts() []string {
	var titles []string
	for _, e := range l.all() {
		if e.Type == EventNotification {
			titles = append(titles, e.Toast.Title)
		}
	}
	return titles
}

type fixture struct {
	conv    *Conversation
	catalog *recordingCatalog
	cart    *cart.Store
	tickets *support.Store
	orders  *orders.Store
	events  *eventLog
}

func newFixture(t *testing.T, tweak ...func(*Deps, *Options)) *fixture {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	ctx := t.Context()
	products := catalog.NewStore(database)
	for _, p := range testProducts {
		require.NoError(t, products.UpsertProduct(ctx, p))
	}
	orderStore := orders.NewStore(database)
	require.NoError(t, orderStore.UpsertOrder(ctx, orders.Order{OrderID: "ORD-12345", Status: orders.StatusInTransit, Location: "Denver, CO"}))

	f := &fixture{
		catalog: &recordingCatalog{Reader: products},
		cart:    cart.NewStore(database),
		tickets: support.NewStore(database),
		orders:  orderStore,
		events:  &eventLog{},
	}
	deps := Deps{
		Catalog: f.catalog,
		Orders:  orderStore,
		Cart:    f.cart,
		Tickets: f.tickets,
	}
	opts := Options{SupportPhone: "1-800-SHOP-HELP"}
	for _, fn := range tweak {
		fn(&deps, &opts)
	}

	f.conv = newConversation(ctx, testSession, deps, opts, initialState(), nil)
	f.conv.Subscribe(f.events.record)
	t.Cleanup(f.conv.Close)
	return f
}

func (f *fixture) selectTokens(t *testing.T, tokens ...Token) {
	t.Helper()
	for _, tok := range tokens {
		require.NoError(t, f.conv.SelectOption(t.Context(), Option{Value: string(tok)}), "token %s", tok)
	}
}

func (f *fixture) last() Message {
	msgs := f.conv.Messages()
	return msgs[len(msgs)-1]
}

func optionValues(m Message) []string {
	out := make([]string, 0, len(m.Options))
	for _, o := range m.Options {
		out = append(out, o.Value)
	}
	return out
}

// brokenFetchCart cannot read the cart.
type brokenFetchCart struct {
	Cart
}

func (brokenFetchCart) Fetch(context.Context, session.ID) (*cart.Summary, error) {
	return nil, errUnavailable
}
