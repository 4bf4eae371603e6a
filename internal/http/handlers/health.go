package handlers

import "net/http"

// HealthHandler reports service liveness.
type HealthHandler struct {
	appName string
}

func NewHealthHandler(appName string) *HealthHandler {
	if appName == "" {
		appName = "sales-agent"
	}
	return &HealthHandler{appName: appName}
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"app":    h.appName,
		"status": "ok",
	})
}
