package rag

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Vector is one embedded chunk with its tenant metadata.
type Vector struct {
	ID       string
	Values   []float32
	Metadata map[string]string
}

// Match is a scored retrieval hit.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// VectorStore is the namespaced similarity index the RAG and ingestion flows
// share. Namespaces partition tenants; a query never crosses namespaces.
type VectorStore interface {
	Upsert(ctx context.Context, namespace string, vectors []Vector) error
	Query(ctx context.Context, namespace string, values []float32, topK int) ([]Match, error)
}

// MemoryVectorStore keeps vectors in memory and supports cosine retrieval.
type MemoryVectorStore struct {
	mu      sync.RWMutex
	vectors map[string][]Vector // keyed by namespace
}

// NewMemoryVectorStore creates an empty in-memory store.
func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{
		vectors: make(map[string][]Vector),
	}
}

// Upsert stores vectors in the namespace, replacing entries with the same id.
func (s *MemoryVectorStore) Upsert(_ context.Context, namespace string, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.vectors[namespace]
	byID := make(map[string]int, len(existing))
	for i, v := range existing {
		byID[v.ID] = i
	}

	for _, v := range vectors {
		if idx, ok := byID[v.ID]; ok {
			existing[idx] = v
			continue
		}
		byID[v.ID] = len(existing)
		existing = append(existing, v)
	}
	s.vectors[namespace] = existing
	return nil
}

// Query returns the topK closest vectors in the namespace by cosine similarity.
func (s *MemoryVectorStore) Query(_ context.Context, namespace string, values []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.vectors[namespace]
	if len(candidates) == 0 {
		return nil, nil
	}

	results := make([]Match, 0, len(candidates))
	for _, v := range candidates {
		results = append(results, Match{
			ID:       v.ID,
			Score:    cosineSimilarity(values, v.Values),
			Metadata: v.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count reports how many vectors a namespace holds.
func (s *MemoryVectorStore) Count(namespace string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors[namespace])
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	var normA float64
	var normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ VectorStore = (*MemoryVectorStore)(nil)
