package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/support"
)

func TestTransitionTableCoversVocabulary(t *testing.T) {
	for _, tok := range Tokens() {
		_, ok := transitions[tok]
		assert.True(t, ok, "token %q has no transition", tok)
		assert.NotEmpty(t, tok.Label(), "token %q has no label", tok)
	}
	for tok := range transitions {
		_, err := ParseToken(string(tok))
		assert.NoError(t, err, "transition %q is outside the vocabulary", tok)
	}
	assert.Len(t, transitions, len(Tokens()))
}

func TestNewConversationStartsWithWelcome(t *testing.T) {
	f := newFixture(t)

	msgs := f.conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, SenderBot, msgs[0].Sender)
	assert.Equal(t, TypeQuickActions, msgs[0].Type)
	assert.Equal(t, []string{"product-discovery", "view-cart", "order-tracking", "delivery-info", "returns-info", "human-support"}, optionValues(msgs[0]))
	assert.Equal(t, initialState(), f.conv.State())
	assert.False(t, f.conv.Typing())
	assert.False(t, f.conv.Busy())
}

func TestOptionIDsAreSequential(t *testing.T) {
	m := welcomeMessage()
	for i, o := range m.Options {
		assert.Equal(t, string(rune('1'+i)), o.ID)
	}
}

func TestDiscoveryCapturesFilter(t *testing.T) {
	f := newFixture(t)

	f.selectTokens(t, TokenProductDiscovery)
	assert.Equal(t, FlowProductCategory, f.conv.State().Flow)
	assert.Equal(t, []string{"laptop", "phone"}, optionValues(f.last()))

	f.selectTokens(t, TokenLaptop)
	assert.Equal(t, FlowProductBudget, f.conv.State().Flow)
	assert.Contains(t, f.last().Content, "laptop")

	f.selectTokens(t, Token500To1000)
	assert.Equal(t, FlowProductUsage, f.conv.State().Flow)

	f.selectTokens(t, TokenStudent)
	s := f.conv.State()
	assert.Equal(t, FlowProductResults, s.Flow)
	assert.Equal(t, "laptop", s.ProductCategory)
	assert.Equal(t, "500-1000", s.ProductBudget)
	assert.Equal(t, "student", s.ProductUsage)

	assert.Equal(t, catalog.Filter{Category: "laptop", Budget: "500-1000", Usage: "student"}, f.catalog.lastFilter())

	results := f.last()
	assert.Equal(t, TypeProductResults, results.Type)
	var ids []string
	for _, p := range results.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"lap-air", "lap-student"}, ids)
}

func TestOptionEchoesLabel(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.conv.SelectOption(t.Context(), Option{Label: "Laptops please", Value: "product-discovery"}))
	msgs := f.conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, SenderUser, msgs[1].Sender)
	assert.Equal(t, "Laptops please", msgs[1].Content)

	require.NoError(t, f.conv.SelectOption(t.Context(), Option{Value: "laptop"}))
	msgs = f.conv.Messages()
	assert.Equal(t, "💻 Laptop", msgs[3].Content)
}

func TestEmptyResultsOfferAnotherSearch(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenProductDiscovery, TokenPhone, TokenOver1500, TokenGaming)

	// The phone category still has a product, so the fallback kicks in.
	assert.Len(t, f.last().Products, 1)

	m := resultsMessage(nil)
	assert.Equal(t, TypeOptions, m.Type)
	assert.Equal(t, []string{"product-discovery", "restart"}, optionValues(m))
}

func TestCatalogFailureKeepsFlow(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenProductDiscovery, TokenLaptop, TokenUnder500)
	f.catalog.fail = true

	f.selectTokens(t, TokenStudent)
	assert.Equal(t, FlowProductUsage, f.conv.State().Flow)
	assert.Contains(t, f.last().Content, "couldn't load recommendations")
	assert.Equal(t, []string{"Couldn't load products"}, f.events.toasts())
}

func TestUnknownOptionChangesNothing(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenProductDiscovery)
	before := f.conv.Snapshot()

	err := f.conv.SelectOption(t.Context(), Option{Label: "Bogus", Value: "teleport"})
	require.ErrorIs(t, err, ErrUnknownOption)

	after := f.conv.Snapshot()
	assert.Equal(t, before.State, after.State)
	assert.Len(t, after.Messages, len(before.Messages))
}

func TestOrderNotFound(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenOrderTracking)
	require.Equal(t, FlowOrderInput, f.conv.State().Flow)

	require.NoError(t, f.conv.SubmitText(t.Context(), "ORD-99999"))

	last := f.last()
	assert.Contains(t, last.Content, `couldn't find an order with ID "ORD-99999"`)
	assert.Equal(t, []string{"order-tracking", "human-support", "restart"}, optionValues(last))
	assert.Equal(t, FlowOrderInput, f.conv.State().Flow)
	assert.Nil(t, f.conv.State().SupportContext)
}

func TestOrderFoundCarriesIntoReport(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenOrderTracking)

	require.NoError(t, f.conv.SubmitText(t.Context(), "  ord-12345 "))
	found := f.last()
	require.Equal(t, TypeOrderStatus, found.Type)
	require.NotNil(t, found.OrderStatus)
	assert.Equal(t, "ORD-12345", found.OrderStatus.OrderID)
	assert.Equal(t, "TBD", found.OrderStatus.EstimatedDelivery)
	assert.Equal(t, "No updates yet", found.OrderStatus.LastUpdate)
	assert.Equal(t, []string{"order-tracking", "report-issue", "restart"}, optionValues(found))

	f.selectTokens(t, TokenReportIssue)
	s := f.conv.State()
	assert.Equal(t, FlowSupportCompose, s.Flow)
	require.NotNil(t, s.SupportContext)
	assert.Equal(t, "ORD-12345", s.SupportContext.OrderID)
	assert.Contains(t, f.last().SupportEmail.Body, "Order ID: ORD-12345")
}

func TestOrderLookupFailure(t *testing.T) {
	f := newFixture(t, func(d *Deps, _ *Options) { d.Orders = failingOrders{} })
	f.selectTokens(t, TokenOrderTracking)

	require.NoError(t, f.conv.SubmitText(t.Context(), "ORD-12345"))
	assert.Equal(t, FlowOrderInput, f.conv.State().Flow)
	assert.Contains(t, f.last().Content, "couldn't check that order")
	assert.Equal(t, []string{"Couldn't look up your order"}, f.events.toasts())
}

func TestHumanSupportStartsEmpty(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenOrderTracking)
	require.NoError(t, f.conv.SubmitText(t.Context(), "ORD-12345"))

	f.selectTokens(t, TokenHumanSupport)
	s := f.conv.State()
	assert.Equal(t, FlowSupportCompose, s.Flow)
	require.NotNil(t, s.SupportContext)
	assert.Equal(t, support.Context{}, *s.SupportContext)

	draft := f.last().SupportEmail
	require.NotNil(t, draft)
	assert.Equal(t, support.IssueGeneral, draft.IssueType)
	assert.Equal(t, "Customer Support Request", draft.Subject)
}

func TestDescribingIssueRedrafts(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenHumanSupport)

	require.NoError(t, f.conv.SubmitText(t.Context(), "My package is late and still not arrived"))

	s := f.conv.State()
	require.NotNil(t, s.SupportContext)
	assert.Equal(t, "My package is late and still not arrived", s.SupportContext.UserMessage)

	last := f.last()
	require.NotNil(t, last.SupportEmail)
	assert.Equal(t, support.IssueDeliveryDelay, last.SupportEmail.IssueType)
	assert.Contains(t, last.Content, "**delivery delay**")
}

func TestTextDisabledOutsideInputFlows(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenProductDiscovery)
	before := len(f.conv.Messages())

	err := f.conv.SubmitText(t.Context(), "a laptop please")
	require.ErrorIs(t, err, ErrInputDisabled)
	assert.Len(t, f.conv.Messages(), before)

	require.ErrorIs(t, f.conv.SubmitText(t.Context(), "   "), ErrEmptyText)
}

func TestInitialTextNudges(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.conv.SubmitText(t.Context(), "hello?"))
	msgs := f.conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello?", msgs[1].Content)
	assert.Equal(t, TypeQuickActions, msgs[2].Type)
	assert.Equal(t, FlowInitial, f.conv.State().Flow)
}

func TestViewDetailsAndBack(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenProductDiscovery, TokenLaptop, Token500To1000, TokenStudent)

	require.NoError(t, f.conv.ViewProductDetails(t.Context(), "lap-air"))
	s := f.conv.State()
	assert.Equal(t, FlowProductDetail, s.Flow)
	assert.Equal(t, "lap-air", s.SelectedProductID)
	require.NotNil(t, s.SupportContext)
	assert.Equal(t, "MacBook Air M2", s.SupportContext.ProductName)

	msgs := f.conv.Messages()
	assert.Equal(t, "📋 View Details", msgs[len(msgs)-2].Content)
	require.NotNil(t, f.last().ProductDetail)
	assert.Equal(t, "lap-air", f.last().ProductDetail.ID)

	require.NoError(t, f.conv.BackFromDetail(t.Context()))
	s = f.conv.State()
	assert.Equal(t, FlowProductResults, s.Flow)
	assert.Empty(t, s.SelectedProductID)
	assert.Equal(t, []string{"product-discovery", "view-cart", "restart"}, optionValues(f.last()))
}

func TestViewMissingProduct(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenProductDiscovery)

	require.NoError(t, f.conv.ViewProductDetails(t.Context(), "ghost"))
	assert.Equal(t, "Sorry, I couldn't find that product.", f.last().Content)
	assert.Equal(t, FlowProductCategory, f.conv.State().Flow)
}

func TestAddSameProductTwice(t *testing.T) {
	f := newFixture(t)

	_, err := f.conv.AddToCart(t.Context(), "lap-student")
	require.NoError(t, err)
	sum, err := f.conv.AddToCart(t.Context(), "lap-student")
	require.NoError(t, err)

	require.Len(t, sum.Items, 1)
	assert.Equal(t, 2, sum.Items[0].Quantity)
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 1398.0, sum.Subtotal, 0.001)
	assert.Contains(t, f.last().Content, "Your cart now has 2 item(s). Total: $1398.00")
	assert.Equal(t, []string{"Added to cart!", "Added to cart!"}, f.events.toasts())

	f.selectTokens(t, TokenViewCart)
	last := f.last()
	assert.Equal(t, TypeCartSummary, last.Type)
	require.NotNil(t, last.Cart)
	assert.Equal(t, 2, last.Cart.Count)
}

func TestAddSelectedToCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.conv.AddSelectedToCart(t.Context())
	require.ErrorIs(t, err, ErrNoProductSelected)

	require.NoError(t, f.conv.ViewProductDetails(t.Context(), "ph-pixel"))
	sum, err := f.conv.AddSelectedToCart(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
	assert.Equal(t, FlowProductDetail, f.conv.State().Flow)
}

func TestAddToCartFailureChangesNothing(t *testing.T) {
	f := newFixture(t, func(d *Deps, _ *Options) { d.Cart = failingCart{Cart: d.Cart} })
	before := f.conv.Snapshot()

	_, err := f.conv.AddToCart(t.Context(), "lap-air")
	require.Error(t, err)

	after := f.conv.Snapshot()
	assert.Equal(t, before.State, after.State)
	assert.Len(t, after.Messages, len(before.Messages))
	assert.Equal(t, []string{"Failed to add to cart"}, f.events.toasts())
}

func TestRemoveAndUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	_, err := f.conv.AddToCart(t.Context(), "lap-air")
	require.NoError(t, err)
	sum, err := f.conv.AddToCart(t.Context(), "ph-pixel")
	require.NoError(t, err)
	require.Len(t, sum.Items, 2)
	before := len(f.conv.Messages())

	sum, err = f.conv.UpdateCartQuantity(t.Context(), sum.Items[0].ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Count)

	sum, err = f.conv.UpdateCartQuantity(t.Context(), sum.Items[0].ID, 0)
	require.NoError(t, err)
	require.Len(t, sum.Items, 1)

	sum, err = f.conv.RemoveFromCart(t.Context(), sum.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, sum.Items)
	assert.Zero(t, sum.Subtotal)

	assert.Len(t, f.conv.Messages(), before)
	assert.Contains(t, f.events.toasts(), "Item removed from cart")
}

func TestCartFetchFailureKeepsFlow(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenDeliveryInfo)
	f.conv.deps.Cart = brokenFetchCart{}

	f.selectTokens(t, TokenViewCart)
	assert.Equal(t, FlowDeliveryInfo, f.conv.State().Flow)
	assert.Equal(t, []string{"view-cart", "restart"}, optionValues(f.last()))
	assert.Equal(t, []string{"Couldn't load your cart"}, f.events.toasts())
}

func TestContinueShoppingAndCheckout(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenProductDiscovery, TokenLaptop, TokenUnder500, TokenDaily, TokenViewCart)

	require.NoError(t, f.conv.ContinueShopping(t.Context()))
	s := f.conv.State()
	assert.Equal(t, FlowProductCategory, s.Flow)
	assert.Empty(t, s.ProductCategory)
	assert.Empty(t, s.ProductBudget)
	assert.Empty(t, s.ProductUsage)

	require.NoError(t, f.conv.Checkout(t.Context()))
	assert.Equal(t, FlowCheckout, f.conv.State().Flow)
	assert.Contains(t, f.last().Content, "1-800-SHOP-HELP")
	assert.Equal(t, []string{"human-support", "restart"}, optionValues(f.last()))
}

func TestInfoPages(t *testing.T) {
	cases := []struct {
		tok   Token
		flow  Flow
		title string
	}{
		{TokenDeliveryInfo, FlowDeliveryInfo, "Delivery Information"},
		{TokenReturnsInfo, FlowReturnsInfo, "Returns & Refunds"},
		{TokenWarrantyInfo, FlowWarrantyInfo, "Warranty Information"},
	}
	for _, tc := range cases {
		t.Run(string(tc.tok), func(t *testing.T) {
			f := newFixture(t)
			f.selectTokens(t, tc.tok)
			assert.Equal(t, tc.flow, f.conv.State().Flow)
			assert.Contains(t, f.last().Content, tc.title)
		})
	}
}

func TestRestartFromEveryFlow(t *testing.T) {
	tests := []struct {
		name     string
		path     []Token
		text     string
		details  string
		wantFlow Flow
	}{
		{name: "category", path: []Token{TokenProductDiscovery}, wantFlow: FlowProductCategory},
		{name: "budget", path: []Token{TokenProductDiscovery, TokenPhone}, wantFlow: FlowProductBudget},
		{name: "usage", path: []Token{TokenProductDiscovery, TokenPhone, TokenUnder500}, wantFlow: FlowProductUsage},
		{name: "results", path: []Token{TokenProductDiscovery, TokenLaptop, Token500To1000, TokenStudent}, wantFlow: FlowProductResults},
		{name: "detail", path: []Token{TokenProductDiscovery, TokenLaptop, Token500To1000, TokenStudent}, details: "lap-pro", wantFlow: FlowProductDetail},
		{name: "cart", path: []Token{TokenViewCart}, wantFlow: FlowViewCart},
		{name: "order", path: []Token{TokenOrderTracking}, wantFlow: FlowOrderInput},
		{name: "order found", path: []Token{TokenOrderTracking}, text: "ord-12345", wantFlow: FlowOrderInput},
		{name: "support", path: []Token{TokenHumanSupport}, text: "my package is late", wantFlow: FlowSupportCompose},
		{name: "delivery", path: []Token{TokenDeliveryInfo}, wantFlow: FlowDeliveryInfo},
		{name: "returns", path: []Token{TokenReturnsInfo}, wantFlow: FlowReturnsInfo},
		{name: "warranty", path: []Token{TokenWarrantyInfo}, wantFlow: FlowWarrantyInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.selectTokens(t, tt.path...)
			if tt.text != "" {
				require.NoError(t, f.conv.SubmitText(t.Context(), tt.text))
			}
			if tt.details != "" {
				require.NoError(t, f.conv.ViewProductDetails(t.Context(), tt.details))
			}
			require.Equal(t, tt.wantFlow, f.conv.State().Flow)

			require.NoError(t, f.conv.Restart(t.Context()))
			s := f.conv.State()
			assert.Equal(t, FlowInitial, s.Flow)
			assert.Empty(t, s.SelectedProductID)
			assert.Empty(t, s.ProductCategory)
			assert.Nil(t, s.SupportContext)
			assert.Equal(t, TypeQuickActions, f.last().Type)
			assert.True(t, strings.HasPrefix(f.last().Content, "👋"))
		})
	}
}

func TestSendSupportEmailRequiresDraft(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *fixture)
		wantFlow Flow
	}{
		{
			name: "order lookup",
			setup: func(t *testing.T, f *fixture) {
				f.selectTokens(t, TokenOrderTracking)
				require.NoError(t, f.conv.SubmitText(t.Context(), "ord-12345"))
			},
			wantFlow: FlowOrderInput,
		},
		{
			name: "product detail",
			setup: func(t *testing.T, f *fixture) {
				require.NoError(t, f.conv.ViewProductDetails(t.Context(), "lap-pro"))
			},
			wantFlow: FlowProductDetail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)
			before := f.conv.Snapshot()
			require.NotNil(t, before.State.SupportContext)

			ticket, err := f.conv.SendSupportEmail(t.Context(), SendRequest{Email: "a@example.com"})
			require.ErrorIs(t, err, ErrNoSupportDraft)
			assert.Nil(t, ticket)
			assert.Equal(t, tt.wantFlow, f.conv.State().Flow)
			assert.Equal(t, before.State, f.conv.State())
			assert.Len(t, f.conv.Messages(), len(before.Messages))

			tickets, err := f.tickets.ListTickets(t.Context(), testSession)
			require.NoError(t, err)
			assert.Empty(t, tickets)
		})
	}
}

func TestSendSupportEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.conv.SendSupportEmail(t.Context(), SendRequest{Email: "a@b.co"})
	require.ErrorIs(t, err, ErrNoSupportDraft)

	f.selectTokens(t, TokenHumanSupport)
	require.NoError(t, f.conv.SubmitText(t.Context(), "the package was delayed"))
	before := f.conv.Snapshot()

	_, err = f.conv.SendSupportEmail(t.Context(), SendRequest{Email: "not-an-email"})
	require.ErrorIs(t, err, support.ErrInvalidEmail)
	assert.Equal(t, before.State, f.conv.State())
	assert.Len(t, f.conv.Messages(), len(before.Messages))
	tickets, err := f.tickets.ListTickets(t.Context(), testSession)
	require.NoError(t, err)
	assert.Empty(t, tickets)

	ticket, err := f.conv.SendSupportEmail(t.Context(), SendRequest{Email: " shopper@example.com ", Subject: "Where is my stuff"})
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", ticket.Email)
	assert.Equal(t, "Where is my stuff", ticket.Subject)
	assert.Equal(t, support.IssueDeliveryDelay, ticket.TicketType)

	s := f.conv.State()
	assert.Equal(t, FlowInitial, s.Flow)
	assert.Nil(t, s.SupportContext)
	assert.Contains(t, f.last().Content, "**shopper@example.com**")
	assert.Contains(t, f.last().Content, "Ticket Type: DELIVERY DELAY")
	assert.Equal(t, []string{"restart"}, optionValues(f.last()))

	tickets, err = f.tickets.ListTickets(t.Context(), testSession)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Contains(t, f.events.toasts(), "Support ticket created!")
}

func TestSendSupportEmailFailureKeepsDraft(t *testing.T) {
	f := newFixture(t, func(d *Deps, _ *Options) { d.Tickets = failingTickets{} })
	f.selectTokens(t, TokenHumanSupport)
	before := f.conv.Snapshot()

	_, err := f.conv.SendSupportEmail(t.Context(), SendRequest{Email: "shopper@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUnavailable))
	assert.Equal(t, before.State, f.conv.State())
	assert.Len(t, f.conv.Messages(), len(before.Messages))
	assert.Equal(t, []string{"Failed to create support ticket"}, f.events.toasts())
}

func TestBackFromSupport(t *testing.T) {
	f := newFixture(t)
	f.selectTokens(t, TokenHumanSupport)

	require.NoError(t, f.conv.BackFromSupport(t.Context()))
	assert.Equal(t, initialState(), f.conv.State())
	assert.Equal(t, TypeQuickActions, f.last().Type)
}
