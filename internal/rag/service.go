package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

// NoAnswerMessage is returned when retrieval finds nothing for the tenant.
const NoAnswerMessage = "I could not find information for that request."

const historyWindow = 8

// Service answers questions over the tenant's ingested knowledge.
type Service struct {
	store    VectorStore
	embedder Embedder
	client   llm.Client
	topK     int
	logger   *logging.Logger
}

// NewService wires the retrieval-augmented answerer.
func NewService(store VectorStore, embedder Embedder, client llm.Client, topK int, logger *logging.Logger) *Service {
	if store == nil {
		panic("rag: vector store cannot be nil")
	}
	if embedder == nil {
		panic("rag: embedder cannot be nil")
	}
	if client == nil {
		panic("rag: llm client cannot be nil")
	}
	if topK <= 0 {
		topK = 5
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		embedder: embedder,
		client:   client,
		topK:     topK,
		logger:   logger,
	}
}

// AnswerQuery retrieves the tenant's best-matching snippets and asks the
// model to answer from them. History beyond the last few messages is ignored.
func (s *Service) AnswerQuery(ctx context.Context, tenant tenancy.TenantContext, query string, history []llm.ChatMessage) (string, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("rag: embed query failed: %w", err)
	}

	matches, err := s.store.Query(ctx, tenant.Namespace(), vector, s.topK)
	if err != nil {
		return "", fmt.Errorf("rag: retrieval failed: %w", err)
	}

	snippets := extractSnippets(matches)
	if len(snippets) == 0 {
		s.logger.Info("no rag context found", "namespace", tenant.Namespace(), "query_len", len(query))
		return NoAnswerMessage, nil
	}

	prompt := buildPrompt(query, snippets, history)
	resp, err := s.client.Complete(ctx, llm.Request{
		Messages: []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("rag: generation failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// extractSnippets pulls the stored chunk text out of match metadata.
func extractSnippets(matches []Match) []string {
	var snippets []string
	for _, m := range matches {
		if text := m.Metadata["text"]; text != "" {
			snippets = append(snippets, text)
		}
	}
	return snippets
}

func buildPrompt(query string, snippets []string, history []llm.ChatMessage) string {
	contextBlock := strings.Join(snippets, "\n\n")

	historyBlock := "None."
	if len(history) > 0 {
		recent := history
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		var lines []string
		for _, msg := range recent {
			if msg.Content == "" {
				continue
			}
			role := msg.Role
			if role == "" {
				role = llm.ChatRoleUser
			}
			lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Content))
		}
		if len(lines) > 0 {
			historyBlock = strings.Join(lines, "\n")
		}
	}

	var b strings.Builder
	b.WriteString("You are a helpful sales assistant crafting concise, accurate answers.\n")
	b.WriteString("Use ONLY the provided context snippets to answer the user's question.\n")
	b.WriteString("If the context does not contain the answer, say you do not have that information.\n\n")
	fmt.Fprintf(&b, "Context Snippets:\n%s\n\n", contextBlock)
	fmt.Fprintf(&b, "Conversation History:\n%s\n\n", historyBlock)
	fmt.Fprintf(&b, "User Question:\n%s\n\n", query)
	b.WriteString("Answer:")
	return b.String()
}
