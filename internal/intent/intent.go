package intent

import (
	"context"
	"errors"
	"fmt"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	RAGInfo          Intent = "RAG_INFO"
	PurchaseInterest Intent = "PURCHASE_INTEREST"
	Booking          Intent = "BOOKING"
	CancelBooking    Intent = "CANCEL_BOOKING"
)

// ErrUnsupportedIntent is returned when a label is outside the canonical set.
var ErrUnsupportedIntent = errors.New("intent: unsupported intent label")

// All returns the canonical intents in fixed declaration order. Classifier
// tie-breaks depend on this order being stable.
func All() []Intent {
	return []Intent{RAGInfo, PurchaseInterest, Booking, CancelBooking}
}

// FromLabel parses a canonical label. Matching is exact; fuzziness belongs to
// classifiers, not here.
func FromLabel(label string) (Intent, error) {
	switch Intent(label) {
	case RAGInfo, PurchaseInterest, Booking, CancelBooking:
		return Intent(label), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedIntent, label)
}

// String implements fmt.Stringer.
func (i Intent) String() string { return string(i) }

// Classifier decides which flow a user message belongs to. Implementations
// must not fail for ordinary queries; anything unclassifiable maps to RAGInfo.
type Classifier interface {
	Classify(ctx context.Context, query string) Intent
}
