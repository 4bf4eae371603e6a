package ingestion

import (
	"errors"
	"strings"
)

const (
	// DefaultChunkSize is the chunk length in words.
	DefaultChunkSize = 512
	// DefaultChunkOverlap is how many words consecutive chunks share.
	DefaultChunkOverlap = 50
)

var (
	ErrInvalidChunkSize = errors.New("ingestion: chunk size must be positive")
	ErrNegativeOverlap  = errors.New("ingestion: overlap cannot be negative")
)

// ChunkWords splits text into word-based segments of chunkSize words with the
// given overlap between consecutive segments. An overlap at or above the
// chunk size degrades to non-overlapping segments rather than looping.
func ChunkWords(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if overlap < 0 {
		return nil, ErrNegativeOverlap
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}
	}
	return chunks, nil
}
