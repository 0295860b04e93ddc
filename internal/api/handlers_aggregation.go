package api

import (
	"fmt"
	"net/http"
	"strconv"
)

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", name)
	}

	return v, nil
}

// ListBetsHandler handles GET /bets?pageIndex=&pageSize=&status=
func (h *HandlerProvider) ListBetsHandler(w http.ResponseWriter, r *http.Request) {
	pageIndex, err := queryInt(r, "pageIndex")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pageSize, err := queryInt(r, "pageSize")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	listing, err := h.agg.ListBets(r.Context(), pageIndex, pageSize, r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

// CountBetsHandler handles GET /bets/count
func (h *HandlerProvider) CountBetsHandler(w http.ResponseWriter, r *http.Request) {
	n, err := h.agg.TotalBetCount(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"total": n})
}

// TotalsHandler handles GET /bets/totals
func (h *HandlerProvider) TotalsHandler(w http.ResponseWriter, r *http.Request) {
	t, err := h.agg.TotalsAcrossAllBets(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, globalTotalsResponse{
		totalsResponse: toTotals(t.Totals),
		LastBetAmount:  t.LastBetAmount,
	})
}

// UserTotalsHandler handles GET /users/{userId}/bets/totals
func (h *HandlerProvider) UserTotalsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	t, err := h.agg.TotalsForUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserTotals(*t))
}

// UserSummaryHandler handles GET /users/{userId}/bets/summary
func (h *HandlerProvider) UserSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	s, err := h.agg.UserBetSummary(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		UserID:    s.UserID,
		FirstName: s.FirstName,
		Totals:    toUserTotals(s.Totals),
		LastBet:   toBetResponse(s.LastBet),
		BetCount:  s.BetCount,
	})
}
