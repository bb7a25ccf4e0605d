package handlers

import (
	"encoding/json"
	"net/http"

	"mining-engine/backend-go/internal/config"
	"mining-engine/backend-go/internal/services"
)

type API struct {
	cfg  config.Config
	live *services.LiveService
}

func New(cfg config.Config, live *services.LiveService) *API {
	return &API{
		cfg:  cfg,
		live: live,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
