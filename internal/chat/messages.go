package chat

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shopassist/internal/cart"
	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/orders"
	"github.com/ziadkadry99/shopassist/internal/support"
)

func newMessage(sender Sender, typ MessageType, content string, opts ...Option) Message {
	for i := range opts {
		opts[i].ID = strconv.Itoa(i + 1)
	}
	return Message{
		ID:        uuid.New().String(),
		Type:      typ,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Options:   opts,
	}
}

func userMessage(content string) Message {
	return newMessage(SenderUser, TypeText, content)
}

func botMessage(typ MessageType, content string, opts ...Option) Message {
	return newMessage(SenderBot, typ, content, opts...)
}

func welcomeOptions() []Option {
	return []Option{
		TokenProductDiscovery.option(""),
		TokenViewCart.option(""),
		TokenOrderTracking.option(""),
		TokenDeliveryInfo.option(""),
		TokenReturnsInfo.option(""),
		TokenHumanSupport.option(""),
	}
}

func welcomeMessage() Message {
	return botMessage(TypeQuickActions,
		"👋 Hi there! I'm your shopping assistant. How can I help you today?",
		welcomeOptions()...)
}

func initialNudgeMessage() Message {
	return botMessage(TypeQuickActions,
		"I'm not sure I can help with that yet. Please pick one of the options below:",
		welcomeOptions()...)
}

func categoryMessage(content string) Message {
	return botMessage(TypeOptions, content,
		TokenLaptop.option(""),
		TokenPhone.option(""),
	)
}

func budgetMessage(category string) Message {
	return botMessage(TypeOptions, fmt.Sprintf("Perfect! What's your budget for a %s?", category),
		TokenUnder500.option(""),
		Token500To1000.option(""),
		Token1000To1500.option(""),
		TokenOver1500.option(""),
	)
}

func usageMessage() Message {
	return botMessage(TypeOptions, "Almost there! What will you primarily use it for?",
		TokenStudent.option(""),
		TokenOffice.option(""),
		TokenGaming.option(""),
		TokenDaily.option(""),
	)
}

func resultsMessage(products []catalog.Product) Message {
	if len(products) == 0 {
		return botMessage(TypeOptions, "😕 I couldn't find any products for that search yet.",
			TokenProductDiscovery.option("🔍 Try Another Search"),
			TokenRestart.option(""),
		)
	}
	m := botMessage(TypeProductResults, "🎉 Here are my top recommendations for you:",
		TokenRestart.option("🔄 Start Over"),
		TokenViewCart.option(""),
	)
	m.Products = products
	return m
}

func resultsUnavailableMessage() Message {
	return botMessage(TypeOptions, "⚠️ I couldn't load recommendations right now. Please pick a usage again to retry.",
		TokenStudent.option(""),
		TokenOffice.option(""),
		TokenGaming.option(""),
		TokenDaily.option(""),
	)
}

func cartMessage(summary *cart.Summary) Message {
	m := botMessage(TypeCartSummary, "🛒 Here's your shopping cart:")
	m.Cart = summary
	return m
}

func cartUnavailableMessage() Message {
	return botMessage(TypeOptions, "⚠️ I couldn't load your cart right now.",
		TokenViewCart.option("🔄 Try Again"),
		TokenRestart.option(""),
	)
}

func orderPromptMessage() Message {
	return botMessage(TypeText, "📦 Sure! Please enter your Order ID (e.g., ORD-12345):")
}

func orderFoundMessage(o *orders.Order) Message {
	m := botMessage(TypeOrderStatus, "📦 Found your order!",
		TokenOrderTracking.option("📦 Track Another"),
		TokenReportIssue.option(""),
		TokenRestart.option(""),
	)
	m.OrderStatus = &OrderStatus{
		OrderID:           o.OrderID,
		Status:            o.Status,
		EstimatedDelivery: orDefault(o.EstimatedDelivery, "TBD"),
		LastUpdate:        orDefault(o.LastUpdate, "No updates yet"),
		Location:          o.Location,
	}
	return m
}

func orderNotFoundMessage(input string) Message {
	return botMessage(TypeOptions,
		fmt.Sprintf("❌ Sorry, I couldn't find an order with ID \"%s\". Please check the order ID and try again.\n\n", input)+
			"💡 **Tip**: Order IDs usually start with \"ORD-\" followed by numbers (e.g., ORD-12345)",
		TokenOrderTracking.option("🔄 Try Again"),
		TokenHumanSupport.option(""),
		TokenRestart.option(""),
	)
}

func orderUnavailableMessage() Message {
	return botMessage(TypeOptions, "⚠️ I couldn't check that order right now. Please try again in a moment.",
		TokenOrderTracking.option("🔄 Try Again"),
		TokenHumanSupport.option(""),
		TokenRestart.option(""),
	)
}

const deliveryInfo = "🚚 **Delivery Information**\n\n" +
	"• **Standard Delivery**: 5-7 business days (Free over $50)\n" +
	"• **Express Delivery**: 2-3 business days ($9.99)\n" +
	"• **Next Day**: Order by 2 PM for next-day delivery ($19.99)\n\n" +
	"📍 We deliver to all 50 states. International shipping available for select items.\n\n" +
	"Need more help?"

const returnsInfo = "↩️ **Returns & Refunds**\n\n" +
	"**30-Day Return Policy**\n" +
	"• Items must be in original packaging\n" +
	"• Include all accessories and manuals\n" +
	"• Free returns on defective items\n\n" +
	"**Refund Timeline**\n" +
	"• Refund initiated within 24 hours of receiving return\n" +
	"• 5-7 business days to appear in your account\n\n" +
	"Need to start a return?"

const warrantyInfo = "🛡️ **Warranty Information**\n\n" +
	"**Standard Warranty**\n" +
	"• 1-year manufacturer warranty on all electronics\n" +
	"• 2-year warranty on premium products\n\n" +
	"**What's Covered**\n" +
	"✅ Manufacturing defects\n" +
	"✅ Hardware malfunctions\n" +
	"✅ Battery issues (first 6 months)\n\n" +
	"**What's NOT Covered**\n" +
	"❌ Physical damage or water damage\n" +
	"❌ Software issues\n" +
	"❌ Normal wear and tear\n\n" +
	"Need to file a warranty claim?"

func infoMessage(t Token) Message {
	switch t {
	case TokenDeliveryInfo:
		return botMessage(TypeOptions, deliveryInfo,
			TokenOrderTracking.option("📦 Track My Order"),
			TokenRestart.option(""),
		)
	case TokenReturnsInfo:
		return botMessage(TypeOptions, returnsInfo,
			TokenHumanSupport.option("📧 Create Support Email"),
			TokenRestart.option(""),
		)
	default:
		return botMessage(TypeOptions, warrantyInfo,
			TokenHumanSupport.option("📧 Contact Support"),
			TokenRestart.option(""),
		)
	}
}

func supportDraftMessage(content string, issue support.IssueType, c support.Context) Message {
	email := support.GenerateEmail(issue, c)
	m := botMessage(TypeSupportEmail, content)
	m.SupportEmail = &SupportEmail{
		Subject:     email.Subject,
		Body:        email.Body,
		IssueType:   issue,
		IssueLabel:  issue.Label(),
		OrderID:     c.OrderID,
		ProductName: c.ProductName,
	}
	return m
}

const contactSupportIntro = "👤 **Contact Support**\n\nI've prepared an email template for you. You can customize it before sending:"

func detectedIssueIntro(issue support.IssueType) string {
	return fmt.Sprintf("I've detected this might be about: **%s**\n\nHere's your customized support email:", issue.Phrase())
}

func productDetailMessage(p *catalog.Product) Message {
	m := botMessage(TypeProductDetail, "Here are the full product details:")
	m.ProductDetail = p
	return m
}

func productMissingMessage() Message {
	return botMessage(TypeText, "Sorry, I couldn't find that product.")
}

func addedToCartMessage(summary *cart.Summary) Message {
	return botMessage(TypeOptions,
		fmt.Sprintf("✅ **Added to cart!**\n\nYour cart now has %d item(s). Total: $%.2f", summary.Count, summary.Subtotal),
		TokenViewCart.option(""),
		TokenProductDiscovery.option("🔍 Continue Shopping"),
		TokenRestart.option(""),
	)
}

func afterDetailMessage() Message {
	return botMessage(TypeOptions, "Anything else I can help you with?",
		TokenProductDiscovery.option("🔍 Find More Products"),
		TokenViewCart.option(""),
		TokenRestart.option(""),
	)
}

func checkoutMessage(phone string) Message {
	return botMessage(TypeOptions,
		"🎉 **Ready to Checkout!**\n\n"+
			"To complete your purchase, please visit our secure checkout page. A customer service representative can also assist you over the phone.\n\n"+
			fmt.Sprintf("📞 **%s**\n\n", phone)+
			"Would you like any other assistance?",
		TokenHumanSupport.option(""),
		TokenRestart.option(""),
	)
}

func ticketSubmittedMessage(email string, issue support.IssueType) Message {
	return botMessage(TypeOptions,
		fmt.Sprintf("✅ **Support Request Submitted!**\n\nWe've received your request and will respond to **%s** within 24 hours.\n\nTicket Type: %s\n\nIs there anything else I can help you with?",
			email, issue.Title()),
		TokenRestart.option(""),
	)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
