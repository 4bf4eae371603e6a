package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/sales-agent-platform/internal/leads"
)

func newLeadsRouter(t *testing.T) (*chi.Mux, *leads.InMemoryRepository) {
	t.Helper()
	repo := leads.NewInMemoryRepository()
	r := chi.NewRouter()
	r.Get("/admin/orgs/{orgID}/leads", NewAdminLeadsHandler(repo, nil).List)
	return r, repo
}

func seedLead(t *testing.T, repo *leads.InMemoryRepository, orgID, name string) {
	t.Helper()
	_, err := repo.Create(context.Background(), &leads.Record{
		OrgID:           orgID,
		BranchID:        "branch-1",
		Name:            name,
		Email:           "lead@example.com",
		ProductInterest: []string{"solar panels"},
	})
	require.NoError(t, err)
}

func TestAdminLeadsHandlerListsOrgLeads(t *testing.T) {
	router, repo := newLeadsRouter(t)
	seedLead(t, repo, "org-1", "Jordan Smith")
	seedLead(t, repo, "org-1", "Priya Patel")
	seedLead(t, repo, "org-2", "Outsider")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orgs/org-1/leads", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LeadsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Leads, 2)
	assert.Equal(t, defaultLeadPageSize, resp.Limit)
	assert.Equal(t, 0, resp.Offset)
	for _, lead := range resp.Leads {
		assert.Equal(t, "org-1", lead.OrgID)
	}
}

func TestAdminLeadsHandlerPaging(t *testing.T) {
	router, repo := newLeadsRouter(t)
	for _, name := range []string{"Lead One", "Lead Two", "Lead Three"} {
		seedLead(t, repo, "org-1", name)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orgs/org-1/leads?limit=2&offset=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LeadsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Leads, 2)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, 1, resp.Offset)
}

func TestAdminLeadsHandlerEmptyOrg(t *testing.T) {
	router, _ := newLeadsRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orgs/org-9/leads", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LeadsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Leads)
	assert.Empty(t, resp.Leads)
}

func TestAdminLeadsHandlerRejectsBadPaging(t *testing.T) {
	router, _ := newLeadsRouter(t)

	for _, query := range []string{"?limit=0", "?limit=abc", "?offset=-1"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orgs/org-1/leads"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}
