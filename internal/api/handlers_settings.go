package api

import (
	"net/http"
	"time"
)

// CurrentSettingHandler handles GET /settings/current
func (h *HandlerProvider) CurrentSettingHandler(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Current(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingResponse(s))
}

// PublishSettingHandler handles POST /settings
func (h *HandlerProvider) PublishSettingHandler(w http.ResponseWriter, r *http.Request) {
	var req publishSettingRequest
	err := h.decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	timeOfBet, err := time.ParseDuration(req.TimeOfBet)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid time_of_bet")
		return
	}

	s, err := h.settings.Publish(r.Context(), *req.Factor, timeOfBet)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSettingResponse(s))
}
