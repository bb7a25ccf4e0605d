package handlers

import (
	"encoding/json"
	"net/http"

	"mining-engine/backend-go/internal/engine"
	"mining-engine/backend-go/internal/models"
)

// Calculate validates the request, resolves any miner-id reference against
// the catalog and runs the economics model. Validation failures are reported
// all at once with field-level detail.
func (a *API) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	var req models.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		return
	}

	req.ApplyDefaults()
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}

	writeJSON(w, http.StatusOK, engine.Calculate(req))
}
