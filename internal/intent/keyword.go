package intent

import (
	"context"
	"strings"
)

// keyword sets checked in priority order. Cancellation runs first because
// "reschedule my booking" contains a booking keyword and would otherwise be
// routed into a plain booking.
var (
	cancelKeywords   = []string{"cancel", "reschedule"}
	bookingKeywords  = []string{"book", "schedule", "appointment"}
	purchaseKeywords = []string{"interested", "buy", "price", "cost"}
)

// KeywordClassifier routes by fixed keyword sets. It is the default strategy
// and the fallback behind the LLM classifier.
type KeywordClassifier struct{}

// NewKeywordClassifier returns the rule-based classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify scans the lowercased query against the keyword sets.
func (c *KeywordClassifier) Classify(_ context.Context, query string) Intent {
	lowered := strings.ToLower(query)
	if containsAny(lowered, cancelKeywords) {
		return CancelBooking
	}
	if containsAny(lowered, bookingKeywords) {
		return Booking
	}
	if containsAny(lowered, purchaseKeywords) {
		return PurchaseInterest
	}
	return RAGInfo
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var _ Classifier = (*KeywordClassifier)(nil)
