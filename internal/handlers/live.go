package handlers

import "net/http"

// Live always answers 200 with a best-effort snapshot; upstream failures are
// advisory notes in the payload, never HTTP errors.
func (a *API) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.live.GetLiveData(r.Context()))
}
