package handlers

import (
	"net/http"

	"mining-engine/backend-go/internal/models"
)

func (a *API) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.PresetLibrary())
}

func (a *API) Assumptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.DefaultAssumptions())
}

func (a *API) Miners(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.MinerLibrary())
}
