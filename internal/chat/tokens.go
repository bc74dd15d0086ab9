package chat

import (
	"errors"
	"fmt"
)

// ErrUnknownOption is returned for option values outside the vocabulary.
var ErrUnknownOption = errors.New("unknown option")

// Token is one value of the closed option vocabulary shared with clients.
type Token string

const (
	TokenProductDiscovery Token = "product-discovery"
	TokenLaptop           Token = "laptop"
	TokenPhone            Token = "phone"
	TokenUnder500         Token = "under-500"
	Token500To1000        Token = "500-1000"
	Token1000To1500       Token = "1000-1500"
	TokenOver1500         Token = "over-1500"
	TokenStudent          Token = "student"
	TokenOffice           Token = "office"
	TokenGaming           Token = "gaming"
	TokenDaily            Token = "daily"
	TokenViewCart         Token = "view-cart"
	TokenOrderTracking    Token = "order-tracking"
	TokenDeliveryInfo     Token = "delivery-info"
	TokenReturnsInfo      Token = "returns-info"
	TokenWarrantyInfo     Token = "warranty-info"
	TokenHumanSupport     Token = "human-support"
	TokenReportIssue      Token = "report-issue"
	TokenRestart          Token = "restart"
)

// tokenLabels holds every token with the label used when a client sends a
// bare value. It doubles as the vocabulary.
var tokenLabels = map[Token]string{
	TokenProductDiscovery: "🔍 Find Products",
	TokenLaptop:           "💻 Laptop",
	TokenPhone:            "📱 Phone",
	TokenUnder500:         "💵 Under $500",
	Token500To1000:        "💰 $500 - $1,000",
	Token1000To1500:       "💎 $1,000 - $1,500",
	TokenOver1500:         "👑 Over $1,500",
	TokenStudent:          "📚 Student",
	TokenOffice:           "💼 Office Work",
	TokenGaming:           "🎮 Gaming",
	TokenDaily:            "📱 Daily Use",
	TokenViewCart:         "🛒 View Cart",
	TokenOrderTracking:    "📦 Track Order",
	TokenDeliveryInfo:     "🚚 Delivery Info",
	TokenReturnsInfo:      "↩️ Returns",
	TokenWarrantyInfo:     "🛡️ Warranty",
	TokenHumanSupport:     "👤 Talk to Human",
	TokenReportIssue:      "📧 Report Issue",
	TokenRestart:          "🏠 Back to Menu",
}

// ParseToken validates a raw option value.
func ParseToken(value string) (Token, error) {
	t := Token(value)
	if _, ok := tokenLabels[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOption, value)
	}
	return t, nil
}

// Tokens returns the whole vocabulary.
func Tokens() []Token {
	out := make([]Token, 0, len(tokenLabels))
	for t := range tokenLabels {
		out = append(out, t)
	}
	return out
}

// Label is the default display label for t.
func (t Token) Label() string {
	return tokenLabels[t]
}

func (t Token) option(label string) Option {
	if label == "" {
		label = t.Label()
	}
	return Option{Label: label, Value: string(t)}
}
