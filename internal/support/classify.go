package support

import "strings"

type issueKeywords struct {
	issue    IssueType
	keywords []string
}

// issueTable is checked top to bottom; the first category with any hit wins.
var issueTable = []issueKeywords{
	{IssueDeliveryDelay, []string{"delay", "late", "slow", "taking long", "not arrived", "where is my order", "shipping issue"}},
	{IssueReturnRequest, []string{"return", "refund", "send back", "wrong item", "exchange", "money back"}},
	{IssuePaymentIssue, []string{"payment", "charge", "billing", "invoice", "card declined", "double charged", "overcharged"}},
	{IssueProductDefect, []string{"defect", "broken", "damaged", "not working", "malfunction", "faulty", "dead on arrival"}},
	{IssueMissingItem, []string{"missing", "incomplete", "not included", "part missing", "accessories missing"}},
	{IssueGeneral, []string{"help", "question", "inquiry", "support", "assistance"}},
}

// DetectIssueType returns the first issue category whose keywords appear in
// text, ignoring case. Text matching nothing is general.
func DetectIssueType(text string) IssueType {
	lower := strings.ToLower(text)
	for _, entry := range issueTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.issue
			}
		}
	}
	return IssueGeneral
}

// IssueTypes lists every category in precedence order.
func IssueTypes() []IssueType {
	out := make([]IssueType, len(issueTable))
	for i, entry := range issueTable {
		out[i] = entry.issue
	}
	return out
}

// Valid reports whether t is a known issue type.
func (t IssueType) Valid() bool {
	for _, entry := range issueTable {
		if entry.issue == t {
			return true
		}
	}
	return false
}

var labels = map[IssueType]string{
	IssueDeliveryDelay: "🚚 Delivery Issue",
	IssueReturnRequest: "↩️ Return Request",
	IssuePaymentIssue:  "💳 Payment Issue",
	IssueProductDefect: "🔧 Product Defect",
	IssueMissingItem:   "📦 Missing Item",
	IssueGeneral:       "❓ General Inquiry",
}

// Label is the badge shown on a support email card.
func (t IssueType) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return labels[IssueGeneral]
}

// Phrase is the issue type with its hyphen replaced by a space.
func (t IssueType) Phrase() string {
	return strings.Replace(string(t), "-", " ", 1)
}

// Title is the upper-cased phrase used in confirmations.
func (t IssueType) Title() string {
	return strings.ToUpper(t.Phrase())
}
