package rag

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder produces embeddings via Google's Gemini API.
type GeminiEmbedder struct {
	client  *genai.Client
	modelID string
}

// NewGeminiEmbedder creates an embedder backed by Gemini.
func NewGeminiEmbedder(ctx context.Context, apiKey, modelID string) (*GeminiEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("rag: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "text-embedding-004"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("rag: failed to create gemini client: %w", err)
	}

	return &GeminiEmbedder{client: client, modelID: modelID}, nil
}

// Embed requests an embedding for the text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.client.EmbeddingModel(e.modelID)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("rag: gemini embedding failed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, errors.New("rag: gemini returned empty embedding")
	}
	return resp.Embedding.Values, nil
}

// Close releases resources held by the underlying client.
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

var _ Embedder = (*GeminiEmbedder)(nil)

// HashEmbedder is a deterministic embedder for local development and tests.
// Identical text always maps to the identical vector, so retrieval behaves
// predictably without any external service.
type HashEmbedder struct{}

// NewHashEmbedder returns the deterministic embedder.
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{}
}

// Embed maps the text's SHA-256 digest into a 32-dimensional unit-range vector.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	out := make([]float32, len(digest))
	for i, b := range digest {
		out[i] = float32(b) / 255.0
	}
	return out, nil
}

var _ Embedder = (*HashEmbedder)(nil)
