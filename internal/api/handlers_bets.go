package api

import (
	"net/http"

	"github.com/fastprodman/betledger/internal/model"
)

// CreateBetHandler handles POST /users/{userId}/bets
func (h *HandlerProvider) CreateBetHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req createBetRequest
	err = h.decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bet, err := h.ledger.CreateBet(r.Context(), userID, model.Stake{BetAmount: req.BetAmount})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBetResponse(bet))
}

// ListUserBetsHandler handles GET /users/{userId}/bets
func (h *HandlerProvider) ListUserBetsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	list, err := h.ledger.ListUserBets(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBetResponses(list))
}

// CheckExistingBetHandler handles GET /users/{userId}/bets/check
func (h *HandlerProvider) CheckExistingBetHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	ack, err := h.ledger.CheckExistingBet(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"msg": ack.Msg, "status": http.StatusOK})
}

// CurrentBetHandler handles GET /users/{userId}/bets/current
func (h *HandlerProvider) CurrentBetHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	bet, err := h.ledger.FindCurrentBet(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBetResponse(bet))
}

// UpdateBetHandler handles PATCH /bets/{betId}
func (h *HandlerProvider) UpdateBetHandler(w http.ResponseWriter, r *http.Request) {
	betID, err := parseUUIDParam(r, "betId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid betId in path")
		return
	}

	var req updateBetRequest
	err = h.decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bet, err := h.ledger.UpdateBet(r.Context(), betID, req.patch())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBetResponse(bet))
}
