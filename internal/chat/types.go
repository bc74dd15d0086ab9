package chat

import (
	"time"

	"github.com/ziadkadry99/shopassist/internal/cart"
	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/session"
	"github.com/ziadkadry99/shopassist/internal/support"
)

// Flow is the conversation's current stage.
type Flow string

const (
	FlowInitial         Flow = "initial"
	FlowProductCategory Flow = "product-category"
	FlowProductBudget   Flow = "product-budget"
	FlowProductUsage    Flow = "product-usage"
	FlowProductResults  Flow = "product-results"
	FlowProductDetail   Flow = "product-detail"
	FlowViewCart        Flow = "view-cart"
	FlowOrderInput      Flow = "order-input"
	FlowDeliveryInfo    Flow = "delivery-info"
	FlowReturnsInfo     Flow = "returns-info"
	FlowWarrantyInfo    Flow = "warranty-info"
	FlowHumanSupport    Flow = "human-support"
	FlowSupportCompose  Flow = "support-compose"
	FlowCheckout        Flow = "checkout"
)

// AcceptsText reports whether free-text input is enabled in this flow.
func (f Flow) AcceptsText() bool {
	switch f {
	case FlowOrderInput, FlowSupportCompose, FlowHumanSupport, FlowInitial:
		return true
	}
	return false
}

// ComposesSupport reports whether a support email draft is on screen.
func (f Flow) ComposesSupport() bool {
	return f == FlowSupportCompose || f == FlowHumanSupport
}

// Sender is who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// MessageType selects which payload accompanies a message.
type MessageType string

const (
	TypeText           MessageType = "text"
	TypeQuickActions   MessageType = "quick-actions"
	TypeOptions        MessageType = "options"
	TypeProductResults MessageType = "product-results"
	TypeProductDetail  MessageType = "product-detail"
	TypeCartSummary    MessageType = "cart-summary"
	TypeOrderStatus    MessageType = "order-status"
	TypeSupportEmail   MessageType = "support-email"
)

// Option is a selectable choice rendered under a bot message.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// OrderStatus is the order snapshot shown on an order-status card.
type OrderStatus struct {
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	EstimatedDelivery string `json:"estimated_delivery"`
	LastUpdate        string `json:"last_update"`
	Location          string `json:"location,omitempty"`
}

// SupportEmail is an editable draft shown on a support-email card.
type SupportEmail struct {
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	IssueType   support.IssueType `json:"issue_type"`
	IssueLabel  string            `json:"issue_label"`
	OrderID     string            `json:"order_id,omitempty"`
	ProductName string            `json:"product_name,omitempty"`
}

// Message is one transcript entry. Messages are never modified after they
// are appended.
type Message struct {
	ID            string            `json:"id"`
	Type          MessageType       `json:"type"`
	Sender        Sender            `json:"sender"`
	Content       string            `json:"content"`
	Timestamp     time.Time         `json:"timestamp"`
	Options       []Option          `json:"options,omitempty"`
	Products      []catalog.Product `json:"products,omitempty"`
	ProductDetail *catalog.Product  `json:"product_detail,omitempty"`
	Cart          *cart.Summary     `json:"cart,omitempty"`
	OrderStatus   *OrderStatus      `json:"order_status,omitempty"`
	SupportEmail  *SupportEmail     `json:"support_email,omitempty"`
}

// State is the conversation's single mutable record.
type State struct {
	Flow              Flow             `json:"flow"`
	SelectedProductID string           `json:"selected_product_id,omitempty"`
	ProductCategory   string           `json:"product_category,omitempty"`
	ProductBudget     string           `json:"product_budget,omitempty"`
	ProductUsage      string           `json:"product_usage,omitempty"`
	SupportContext    *support.Context `json:"support_context,omitempty"`
}

func initialState() State {
	return State{Flow: FlowInitial}
}

// supportContext returns a copy of the support context, empty if unset.
func (s State) supportContext() support.Context {
	if s.SupportContext == nil {
		return support.Context{}
	}
	return *s.SupportContext
}

// EventType names what changed in an Event.
type EventType string

const (
	EventMessage      EventType = "message"
	EventTyping       EventType = "typing"
	EventState        EventType = "state"
	EventNotification EventType = "notification"
)

// Event is published to subscribers whenever the conversation changes.
type Event struct {
	Type      EventType            `json:"type"`
	SessionID session.ID           `json:"session_id"`
	Message   *Message             `json:"message,omitempty"`
	Typing    bool                 `json:"typing"`
	State     *State               `json:"state,omitempty"`
	Toast     *notifications.Toast `json:"toast,omitempty"`
}

// Snapshot is a consistent copy of a conversation for rendering.
type Snapshot struct {
	SessionID session.ID `json:"session_id"`
	State     State      `json:"state"`
	Messages  []Message  `json:"messages"`
	Typing    bool       `json:"typing"`
	Busy      bool       `json:"busy"`
}
