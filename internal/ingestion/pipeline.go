package ingestion

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/aurelia-labs/sales-agent-platform/internal/rag"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

// ErrEmptyDocument is reported when a document carries no text at all.
var ErrEmptyDocument = errors.New("ingestion: document has no text")

// Document is one piece of knowledge submitted for ingestion.
type Document struct {
	Text       string `json:"text"`
	SourcePath string `json:"source_path,omitempty"`
}

// Result summarizes one ingestion run. Processed counts chunks upserted;
// Failed counts documents that could not be ingested.
type Result struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Pipeline chunks documents, embeds each chunk and upserts the vectors into
// the tenant's namespace. A failing document never aborts the run; it is
// counted and the remaining documents proceed.
type Pipeline struct {
	store     rag.VectorStore
	embedder  rag.Embedder
	chunkSize int
	overlap   int
	logger    *logging.Logger
}

// NewPipeline wires the ingestion pipeline.
func NewPipeline(store rag.VectorStore, embedder rag.Embedder, logger *logging.Logger) *Pipeline {
	if store == nil {
		panic("ingestion: vector store cannot be nil")
	}
	if embedder == nil {
		panic("ingestion: embedder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		store:     store,
		embedder:  embedder,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		logger:    logger,
	}
}

// Run ingests the documents for the tenant and reports per-run counts.
func (p *Pipeline) Run(ctx context.Context, tenant tenancy.TenantContext, documents []Document) (Result, error) {
	var result Result
	var vectors []rag.Vector

	for _, doc := range documents {
		chunks, err := p.prepare(ctx, tenant, doc)
		if err != nil {
			p.logger.Error("document ingestion failed", "error", err, "source_path", doc.SourcePath)
			result.Failed++
			continue
		}
		vectors = append(vectors, chunks...)
		result.Processed += len(chunks)
	}

	if len(vectors) == 0 {
		return result, nil
	}

	if err := p.store.Upsert(ctx, tenant.Namespace(), vectors); err != nil {
		return result, err
	}

	p.logger.Info("documents ingested",
		"namespace", tenant.Namespace(),
		"chunks", len(vectors),
		"failed", result.Failed,
	)
	return result, nil
}

// prepare chunks and embeds one document.
func (p *Pipeline) prepare(ctx context.Context, tenant tenancy.TenantContext, doc Document) ([]rag.Vector, error) {
	if doc.Text == "" {
		return nil, ErrEmptyDocument
	}

	chunks, err := ChunkWords(doc.Text, p.chunkSize, p.overlap)
	if err != nil {
		return nil, err
	}

	vectors := make([]rag.Vector, 0, len(chunks))
	for _, chunk := range chunks {
		values, err := p.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, rag.Vector{
			ID:     uuid.NewString(),
			Values: values,
			Metadata: map[string]string{
				"org_id":      tenant.OrgID,
				"branch_id":   tenant.BranchID,
				"session_id":  tenant.UserSessionID,
				"source_path": doc.SourcePath,
				"text":        chunk,
			},
		})
	}
	return vectors, nil
}
