package chat

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/support"
)

// transition computes the next state and the single bot reply for an
// option token. Collaborator failures are absorbed here.
type transition func(ctx context.Context, c *Conversation, s State, t Token) (State, Message)

// transitions maps every token in the vocabulary to its handler.
var transitions = map[Token]transition{
	TokenProductDiscovery: startDiscovery,
	TokenLaptop:           chooseCategory,
	TokenPhone:            chooseCategory,
	TokenUnder500:         chooseBudget,
	Token500To1000:        chooseBudget,
	Token1000To1500:       chooseBudget,
	TokenOver1500:         chooseBudget,
	TokenStudent:          chooseUsage,
	TokenOffice:           chooseUsage,
	TokenGaming:           chooseUsage,
	TokenDaily:            chooseUsage,
	TokenViewCart:         showCart,
	TokenOrderTracking:    askOrderID,
	TokenDeliveryInfo:     showInfo,
	TokenReturnsInfo:      showInfo,
	TokenWarrantyInfo:     showInfo,
	TokenHumanSupport:     composeSupport,
	TokenReportIssue:      reportIssue,
	TokenRestart:          restart,
}

// SelectOption handles a click on a rendered option. The option's label is
// echoed as the user's message before the reply is produced. Values outside
// the vocabulary change nothing and return ErrUnknownOption.
func (c *Conversation) SelectOption(ctx context.Context, opt Option) error {
	t, err := ParseToken(opt.Value)
	if err != nil {
		c.deps.Metrics.ObserveUnknownOption()
		return err
	}
	apply, ok := transitions[t]
	if !ok {
		return fmt.Errorf("%w: no transition for %q", ErrUnknownOption, t)
	}
	label := opt.Label
	if label == "" {
		label = t.Label()
	}

	return c.run(ctx, "option:"+string(t), func(ctx context.Context) error {
		c.appendMessage(ctx, userMessage(label))
		next, reply := apply(ctx, c, c.State(), t)
		c.commit(ctx, next, string(t))
		return c.deliver(ctx, reply)
	})
}

// startDiscovery begins a fresh discovery, forgetting earlier answers.
func startDiscovery(_ context.Context, _ *Conversation, s State, _ Token) (State, Message) {
	s = clearDiscovery(s)
	s.Flow = FlowProductCategory
	return s, categoryMessage("Great choice! Let's find the perfect product for you. What are you looking for?")
}

func chooseCategory(_ context.Context, _ *Conversation, s State, t Token) (State, Message) {
	s.Flow = FlowProductBudget
	s.ProductCategory = string(t)
	return s, budgetMessage(string(t))
}

func chooseBudget(_ context.Context, _ *Conversation, s State, t Token) (State, Message) {
	s.Flow = FlowProductUsage
	s.ProductBudget = string(t)
	return s, usageMessage()
}

// chooseUsage runs the catalog query with the accumulated answers.
func chooseUsage(ctx context.Context, c *Conversation, s State, t Token) (State, Message) {
	s.ProductUsage = string(t)
	products, err := c.deps.Catalog.GetFilteredProducts(ctx, catalog.Filter{
		Category: s.ProductCategory,
		Budget:   s.ProductBudget,
		Usage:    s.ProductUsage,
	})
	if err != nil {
		c.collaboratorFailed("catalog", "filter", err)
		c.notify(ctx, notifications.LevelError, "Couldn't load products", "Please try again in a moment.")
		return s, resultsUnavailableMessage()
	}
	s.Flow = FlowProductResults
	return s, resultsMessage(products)
}

func showCart(ctx context.Context, c *Conversation, s State, _ Token) (State, Message) {
	summary, err := c.deps.Cart.Fetch(ctx, c.id)
	if err != nil {
		c.collaboratorFailed("cart", "fetch", err)
		c.notify(ctx, notifications.LevelError, "Couldn't load your cart", "")
		return s, cartUnavailableMessage()
	}
	s.Flow = FlowViewCart
	return s, cartMessage(summary)
}

func askOrderID(_ context.Context, _ *Conversation, s State, _ Token) (State, Message) {
	s.Flow = FlowOrderInput
	return s, orderPromptMessage()
}

func showInfo(_ context.Context, _ *Conversation, s State, t Token) (State, Message) {
	switch t {
	case TokenDeliveryInfo:
		s.Flow = FlowDeliveryInfo
	case TokenReturnsInfo:
		s.Flow = FlowReturnsInfo
	default:
		s.Flow = FlowWarrantyInfo
	}
	return s, infoMessage(t)
}

// composeSupport starts a support email from an empty context.
func composeSupport(_ context.Context, _ *Conversation, s State, _ Token) (State, Message) {
	s.Flow = FlowSupportCompose
	s.SupportContext = &support.Context{}
	return s, supportDraftMessage(contactSupportIntro, support.IssueGeneral, support.Context{})
}

// reportIssue starts a support email that keeps the order and product the
// shopper was just looking at.
func reportIssue(_ context.Context, _ *Conversation, s State, _ Token) (State, Message) {
	prev := s.supportContext()
	sc := support.Context{OrderID: prev.OrderID, ProductName: prev.ProductName}
	s.Flow = FlowSupportCompose
	s.SupportContext = &sc
	return s, supportDraftMessage(contactSupportIntro, support.IssueGeneral, sc)
}

func restart(_ context.Context, _ *Conversation, _ State, _ Token) (State, Message) {
	return initialState(), welcomeMessage()
}

func clearDiscovery(s State) State {
	s.ProductCategory = ""
	s.ProductBudget = ""
	s.ProductUsage = ""
	s.SelectedProductID = ""
	return s
}
