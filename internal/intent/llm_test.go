package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
)

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.text}, nil
}

func TestFallbackClassifier(t *testing.T) {
	tests := []struct {
		name  string
		llm   *fakeLLM
		query string
		want  Intent
	}{
		{"clean label", &fakeLLM{text: "BOOKING"}, "anything", Booking},
		{"label with whitespace", &fakeLLM{text: "  cancel_booking\n"}, "anything", CancelBooking},
		{"unparseable label falls back", &fakeLLM{text: "I think this is a booking"}, "book a demo", Booking},
		{"llm error falls back", &fakeLLM{err: errors.New("quota exceeded")}, "cancel my appointment", CancelBooking},
		{"llm error, no keywords", &fakeLLM{err: errors.New("down")}, "what do you sell", RAGInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFallbackClassifier(NewLLMClassifier(tt.llm), NewKeywordClassifier(), nil)
			if got := c.Classify(context.Background(), tt.query); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
