package intent

import (
	"context"
	"strings"

	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

const classifierPrompt = "Classify the user intent into one of RAG_INFO, PURCHASE_INTEREST, BOOKING," +
	" or CANCEL_BOOKING. Only return the label. Query: "

// LLMClassifier delegates classification to a text-generation model. It must
// be wrapped in a FallbackClassifier before use: any failure, including an
// unparseable label, has to land on the rule-based strategy instead of the
// end user.
type LLMClassifier struct {
	client llm.Client
}

// NewLLMClassifier creates an LLM-backed classifier.
func NewLLMClassifier(client llm.Client) *LLMClassifier {
	if client == nil {
		panic("intent: llm client cannot be nil")
	}
	return &LLMClassifier{client: client}
}

// classify returns the parsed intent or an error. Unexported on purpose: the
// exported Classify contract never fails, so the raw path is only reachable
// through FallbackClassifier.
func (c *LLMClassifier) classify(ctx context.Context, query string) (Intent, error) {
	resp, err := c.client.Complete(ctx, llm.Request{
		Messages:  []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: classifierPrompt + query}},
		MaxTokens: 16,
	})
	if err != nil {
		return RAGInfo, err
	}

	label := strings.ToUpper(strings.TrimSpace(resp.Text))
	return FromLabel(label)
}

// FallbackClassifier runs a primary classifier and falls back to a rule-based
// one when the primary fails.
type FallbackClassifier struct {
	primary  *LLMClassifier
	fallback Classifier
	logger   *logging.Logger
}

// NewFallbackClassifier composes an LLM classifier with a rule-based fallback.
func NewFallbackClassifier(primary *LLMClassifier, fallback Classifier, logger *logging.Logger) *FallbackClassifier {
	if primary == nil {
		panic("intent: primary classifier cannot be nil")
	}
	if fallback == nil {
		fallback = NewKeywordClassifier()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackClassifier{primary: primary, fallback: fallback, logger: logger}
}

// Classify never fails: LLM errors and out-of-vocabulary labels degrade to
// the fallback strategy.
func (c *FallbackClassifier) Classify(ctx context.Context, query string) Intent {
	result, err := c.primary.classify(ctx, query)
	if err != nil {
		c.logger.Warn("llm intent classification failed, using fallback", "error", err)
		return c.fallback.Classify(ctx, query)
	}
	return result
}

var _ Classifier = (*FallbackClassifier)(nil)
