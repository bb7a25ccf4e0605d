package handlers

import (
	"net/http"

	"mining-engine/backend-go/internal/models"
)

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Service: "mining-engine"})
}
