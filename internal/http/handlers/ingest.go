package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aurelia-labs/sales-agent-platform/internal/ingestion"
	"github.com/aurelia-labs/sales-agent-platform/internal/observability/metrics"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

// IngestRequest submits tenant documents for indexing.
type IngestRequest struct {
	Context   tenancy.TenantContext `json:"context"`
	Documents []ingestion.Document  `json:"documents"`
}

// IngestResponse reports per-run counts.
type IngestResponse struct {
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Message   string `json:"message"`
}

// IngestHandler feeds documents through the ingestion pipeline.
type IngestHandler struct {
	pipeline *ingestion.Pipeline
	metrics  *metrics.AgentMetrics
	logger   *logging.Logger
}

func NewIngestHandler(pipeline *ingestion.Pipeline, m *metrics.AgentMetrics, logger *logging.Logger) *IngestHandler {
	if pipeline == nil {
		panic("handlers: ingestion pipeline cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestHandler{pipeline: pipeline, metrics: m, logger: logger}
}

// Handle serves POST /api/v1/ingest.
func (h *IngestHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Context.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.pipeline.Run(r.Context(), req.Context, req.Documents)
	if err != nil {
		h.logger.Error("ingestion failed", "error", err, "org_id", req.Context.OrgID)
		respondError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}

	h.metrics.ObserveIngestion(result.Processed, result.Failed)
	respondJSON(w, http.StatusOK, IngestResponse{
		Processed: result.Processed,
		Failed:    result.Failed,
		Message:   "Ingestion completed",
	})
}
