package support

// GenerateEmail fills the template for issue with whatever c provides. It is
// a pure function of its inputs. Unknown issue types use the general template.
func GenerateEmail(issue IssueType, c Context) Email {
	switch issue {
	case IssueDeliveryDelay:
		return Email{
			Subject: "Delivery Status Inquiry" + when(c.OrderID, " - Order #"+c.OrderID),
			Body: "Dear Support Team,\n\n" +
				"I am writing to inquire about the delivery status of my order" + when(c.OrderID, " (#"+c.OrderID+")") + ".\n\n" +
				or(c.UserMessage, "My order appears to be delayed and I would like an update on its current status and expected delivery date.") + "\n\n" +
				"Could you please provide:\n" +
				"1. Current location of my package\n" +
				"2. Updated estimated delivery date\n" +
				"3. Reason for the delay (if any)\n\n" +
				"Thank you for your assistance.\n\n" +
				"Best regards",
		}
	case IssueReturnRequest:
		return Email{
			Subject: "Return Request" + when(c.OrderID, " - Order #"+c.OrderID) + when(c.ProductName, " - "+c.ProductName),
			Body: "Dear Support Team,\n\n" +
				"I would like to initiate a return for " + or(when(c.ProductName, "the "+c.ProductName), "an item") + when(c.OrderID, " from order #"+c.OrderID) + ".\n\n" +
				or(c.UserMessage, "Please guide me through the return process.") + "\n\n" +
				"Please provide:\n" +
				"1. Return shipping label\n" +
				"2. Instructions for packaging\n" +
				"3. Expected refund timeline\n\n" +
				"Thank you.\n\n" +
				"Best regards",
		}
	case IssuePaymentIssue:
		return Email{
			Subject: "Payment/Billing Issue" + when(c.OrderID, " - Order #"+c.OrderID),
			Body: "Dear Support Team,\n\n" +
				"I am experiencing a payment/billing issue with my order" + when(c.OrderID, " (#"+c.OrderID+")") + ".\n\n" +
				or(c.UserMessage, "I need assistance resolving a billing discrepancy.") + "\n\n" +
				"Please review my account and provide clarification.\n\n" +
				"Thank you.\n\n" +
				"Best regards",
		}
	case IssueProductDefect:
		return Email{
			Subject: "Product Defect Report" + when(c.ProductName, " - "+c.ProductName) + when(c.OrderID, " - Order #"+c.OrderID),
			Body: "Dear Support Team,\n\n" +
				"I am reporting a defect with " + or(c.ProductName, "a product I recently purchased") + when(c.OrderID, " (Order #"+c.OrderID+")") + ".\n\n" +
				or(c.UserMessage, "The product is not functioning as expected.") + "\n\n" +
				"I would like to request:\n" +
				"1. Warranty claim process\n" +
				"2. Replacement or repair options\n" +
				"3. Any troubleshooting steps I may have missed\n\n" +
				"Thank you for your prompt attention.\n\n" +
				"Best regards",
		}
	case IssueMissingItem:
		return Email{
			Subject: "Missing Item Report" + when(c.OrderID, " - Order #"+c.OrderID),
			Body: "Dear Support Team,\n\n" +
				"I received my order" + when(c.OrderID, " (#"+c.OrderID+")") + " but some items appear to be missing.\n\n" +
				or(c.UserMessage, "Please help me resolve this issue.") + "\n\n" +
				"Could you please:\n" +
				"1. Verify the items shipped\n" +
				"2. Arrange for missing items to be sent\n" +
				"3. Confirm expected delivery for missing items\n\n" +
				"Thank you.\n\n" +
				"Best regards",
		}
	default:
		return Email{
			Subject: "Customer Support Request" + when(c.OrderID, " - Order #"+c.OrderID),
			Body: "Dear Support Team,\n\n" +
				or(c.UserMessage, "I need assistance with my recent purchase.") + "\n\n" +
				when(c.OrderID, "Order ID: "+c.OrderID) + "\n" +
				when(c.ProductName, "Product: "+c.ProductName) + "\n\n" +
				"Please get back to me at your earliest convenience.\n\n" +
				"Thank you.\n\n" +
				"Best regards",
		}
	}
}

// when returns s if field is set.
func when(field, s string) string {
	if field == "" {
		return ""
	}
	return s
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
