package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurelia-labs/sales-agent-platform/internal/leads"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

const defaultLeadPageSize = 50

// AdminLeadsHandler exposes captured leads to the admin dashboard.
type AdminLeadsHandler struct {
	repo   leads.Repository
	logger *logging.Logger
}

func NewAdminLeadsHandler(repo leads.Repository, logger *logging.Logger) *AdminLeadsHandler {
	if repo == nil {
		panic("handlers: leads repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminLeadsHandler{repo: repo, logger: logger}
}

// LeadsListResponse is a page of an org's leads.
type LeadsListResponse struct {
	Leads  []*leads.Record `json:"leads"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// List serves GET /admin/orgs/{orgID}/leads with limit/offset paging.
func (h *AdminLeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		respondError(w, http.StatusBadRequest, "orgID is required")
		return
	}

	filter := leads.ListFilter{Limit: defaultLeadPageSize}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	records, err := h.repo.ListByOrg(r.Context(), orgID, filter)
	if err != nil {
		h.logger.Error("lead listing failed", "error", err, "org_id", orgID)
		respondError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if records == nil {
		records = []*leads.Record{}
	}

	respondJSON(w, http.StatusOK, LeadsListResponse{
		Leads:  records,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}
