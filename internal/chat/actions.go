package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/shopassist/internal/cart"
	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/support"
)

// SubmitText handles typed input. It is accepted only in flows whose input
// box is enabled; otherwise nothing is appended and ErrInputDisabled is
// returned.
func (c *Conversation) SubmitText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	return c.run(ctx, "text", func(ctx context.Context) error {
		s := c.State()
		if !s.Flow.AcceptsText() {
			return fmt.Errorf("%w: %s", ErrInputDisabled, s.Flow)
		}
		c.appendMessage(ctx, userMessage(text))

		var reply Message
		switch s.Flow {
		case FlowOrderInput:
			s, reply = c.lookupOrder(ctx, s, text)
		case FlowSupportCompose, FlowHumanSupport:
			s, reply = describeIssue(s, text)
		default:
			reply = initialNudgeMessage()
		}
		c.commit(ctx, s, "text")
		return c.deliver(ctx, reply)
	})
}

// lookupOrder resolves typed order ids. The flow stays in order-input so
// another id can be typed straight away.
func (c *Conversation) lookupOrder(ctx context.Context, s State, text string) (State, Message) {
	o, err := c.deps.Orders.GetOrderByOrderID(ctx, text)
	if err != nil {
		c.collaboratorFailed("orders", "lookup", err)
		c.notify(ctx, notifications.LevelError, "Couldn't look up your order", "")
		return s, orderUnavailableMessage()
	}
	if o == nil {
		return s, orderNotFoundMessage(text)
	}
	sc := s.supportContext()
	sc.OrderID = o.OrderID
	s.SupportContext = &sc
	return s, orderFoundMessage(o)
}

// describeIssue folds typed text into the support context and redrafts the
// email for the detected issue type.
func describeIssue(s State, text string) (State, Message) {
	sc := s.supportContext()
	sc.UserMessage = text
	s.SupportContext = &sc
	issue := support.DetectIssueType(text)
	return s, supportDraftMessage(detectedIssueIntro(issue), issue, sc)
}

// ViewProductDetails opens the detail card for a product.
func (c *Conversation) ViewProductDetails(ctx context.Context, productID string) error {
	return c.run(ctx, "details", func(ctx context.Context) error {
		c.appendMessage(ctx, userMessage("📋 View Details"))

		p, err := c.deps.Catalog.GetProductByID(ctx, productID)
		if err != nil {
			c.collaboratorFailed("catalog", "get", err)
			c.notify(ctx, notifications.LevelError, "Couldn't load product details", "")
		}
		if p == nil {
			return c.deliver(ctx, productMissingMessage())
		}

		s := c.State()
		s.Flow = FlowProductDetail
		s.SelectedProductID = p.ID
		sc := s.supportContext()
		sc.ProductName = p.Name
		s.SupportContext = &sc
		c.commit(ctx, s, "details")
		return c.deliver(ctx, productDetailMessage(p))
	})
}

// AddToCart adds one unit of a product. On failure an error notification is
// raised and neither state nor transcript changes.
func (c *Conversation) AddToCart(ctx context.Context, productID string) (*cart.Summary, error) {
	var summary *cart.Summary
	err := c.run(ctx, "add_to_cart", func(ctx context.Context) error {
		var err error
		summary, err = c.addToCart(ctx, productID)
		return err
	})
	return summary, err
}

// AddSelectedToCart adds the product open in the detail view.
func (c *Conversation) AddSelectedToCart(ctx context.Context) (*cart.Summary, error) {
	var summary *cart.Summary
	err := c.run(ctx, "add_selected_to_cart", func(ctx context.Context) error {
		s := c.State()
		if s.Flow != FlowProductDetail || s.SelectedProductID == "" {
			return ErrNoProductSelected
		}
		var err error
		summary, err = c.addToCart(ctx, s.SelectedProductID)
		return err
	})
	return summary, err
}

func (c *Conversation) addToCart(ctx context.Context, productID string) (*cart.Summary, error) {
	summary, err := c.deps.Cart.Add(ctx, c.id, productID)
	if err != nil {
		c.collaboratorFailed("cart", "add", err)
		c.notify(ctx, notifications.LevelError, "Failed to add to cart", "")
		return nil, err
	}
	c.notify(ctx, notifications.LevelSuccess, "Added to cart!", "Item has been added to your shopping cart.")
	return summary, c.deliver(ctx, addedToCartMessage(summary))
}

// BackFromDetail leaves the detail view.
func (c *Conversation) BackFromDetail(ctx context.Context) error {
	return c.run(ctx, "detail_back", func(ctx context.Context) error {
		s := c.State()
		s.Flow = FlowProductResults
		c.commit(ctx, s, "detail_back")
		return c.deliver(ctx, afterDetailMessage())
	})
}

// RemoveFromCart deletes a cart line.
func (c *Conversation) RemoveFromCart(ctx context.Context, itemID string) (*cart.Summary, error) {
	var summary *cart.Summary
	err := c.run(ctx, "remove_from_cart", func(ctx context.Context) error {
		var err error
		summary, err = c.deps.Cart.Remove(ctx, c.id, itemID)
		if err != nil {
			c.collaboratorFailed("cart", "remove", err)
			c.notify(ctx, notifications.LevelError, "Failed to remove item", "")
			return err
		}
		c.notify(ctx, notifications.LevelSuccess, "Item removed from cart", "")
		return nil
	})
	return summary, err
}

// UpdateCartQuantity sets a cart line's quantity; zero or less removes it.
// Successful updates are silent.
func (c *Conversation) UpdateCartQuantity(ctx context.Context, itemID string, quantity int) (*cart.Summary, error) {
	var summary *cart.Summary
	err := c.run(ctx, "update_quantity", func(ctx context.Context) error {
		var err error
		summary, err = c.deps.Cart.UpdateQuantity(ctx, c.id, itemID, quantity)
		if err != nil {
			c.collaboratorFailed("cart", "update", err)
			c.notify(ctx, notifications.LevelError, "Failed to update quantity", "")
			return err
		}
		return nil
	})
	return summary, err
}

// Cart returns the session's current cart.
func (c *Conversation) Cart(ctx context.Context) (*cart.Summary, error) {
	return c.deps.Cart.Fetch(ctx, c.id)
}

// ContinueShopping returns from the cart to the category question.
func (c *Conversation) ContinueShopping(ctx context.Context) error {
	return c.run(ctx, "continue_shopping", func(ctx context.Context) error {
		s := clearDiscovery(c.State())
		s.Flow = FlowProductCategory
		c.commit(ctx, s, "continue_shopping")
		return c.deliver(ctx, categoryMessage("Let's find the perfect product for you. What are you looking for?"))
	})
}

// Checkout shows the static checkout instructions.
func (c *Conversation) Checkout(ctx context.Context) error {
	return c.run(ctx, "checkout", func(ctx context.Context) error {
		s := c.State()
		s.Flow = FlowCheckout
		c.commit(ctx, s, "checkout")
		return c.deliver(ctx, checkoutMessage(c.opts.SupportPhone))
	})
}

// SendRequest is a support email confirmed by the shopper. Subject and Body
// carry edits made on the card; when empty the template is regenerated.
type SendRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// SendSupportEmail files a ticket from the current support context. A bad
// address is rejected before anything is written. A failed write leaves the
// draft in place; a successful one confirms and returns to the menu state.
func (c *Conversation) SendSupportEmail(ctx context.Context, req SendRequest) (*support.Ticket, error) {
	var ticket *support.Ticket
	err := c.run(ctx, "support_send", func(ctx context.Context) error {
		s := c.State()
		if !s.Flow.ComposesSupport() || s.SupportContext == nil {
			return ErrNoSupportDraft
		}
		if err := support.ValidateEmail(req.Email); err != nil {
			c.notify(ctx, notifications.LevelError, "Please enter a valid email address", "We need it to reply to your request.")
			return err
		}

		sc := *s.SupportContext
		issue := support.DetectIssueType(sc.UserMessage)
		email := support.GenerateEmail(issue, sc)
		if strings.TrimSpace(req.Subject) != "" {
			email.Subject = req.Subject
		}
		if strings.TrimSpace(req.Body) != "" {
			email.Body = req.Body
		}

		var err error
		ticket, err = c.deps.Tickets.CreateTicket(ctx, support.Ticket{
			SessionID:   c.id,
			TicketType:  issue,
			Subject:     email.Subject,
			Body:        email.Body,
			OrderID:     sc.OrderID,
			ProductName: sc.ProductName,
			Email:       req.Email,
		})
		if err != nil {
			if !errors.Is(err, support.ErrInvalidEmail) {
				c.collaboratorFailed("tickets", "create", err)
			}
			c.notify(ctx, notifications.LevelError, "Failed to create support ticket", "")
			return err
		}

		c.notify(ctx, notifications.LevelSuccess, "Support ticket created!", "")
		s.Flow = FlowInitial
		s.SupportContext = nil
		c.commit(ctx, s, "support_send")
		return c.deliver(ctx, ticketSubmittedMessage(ticket.Email, issue))
	})
	return ticket, err
}

// BackFromSupport abandons the draft and shows the menu again.
func (c *Conversation) BackFromSupport(ctx context.Context) error {
	return c.run(ctx, "support_back", func(ctx context.Context) error {
		c.commit(ctx, initialState(), "support_back")
		return c.deliver(ctx, welcomeMessage())
	})
}

// Restart is shorthand for selecting the restart option.
func (c *Conversation) Restart(ctx context.Context) error {
	return c.SelectOption(ctx, TokenRestart.option(""))
}
