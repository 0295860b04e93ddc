package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/services/aggregation"
	"github.com/fastprodman/betledger/internal/services/ledger"
)

type LedgerService interface {
	CreateBet(ctx context.Context, userID uuid.UUID, stake model.Stake) (*model.Bet, error)
	CheckExistingBet(ctx context.Context, userID uuid.UUID) (ledger.Ack, error)
	FindCurrentBet(ctx context.Context, userID uuid.UUID) (*model.Bet, error)
	UpdateBet(ctx context.Context, betID uuid.UUID, patch model.BetPatch) (*model.Bet, error)
	ListUserBets(ctx context.Context, userID uuid.UUID) ([]model.Bet, error)
}

type AggregationService interface {
	ListBets(ctx context.Context, pageIndex, pageSize int, filter string) (*aggregation.Listing, error)
	TotalBetCount(ctx context.Context) (int, error)
	TotalsAcrossAllBets(ctx context.Context) (*aggregation.GlobalTotals, error)
	TotalsForUser(ctx context.Context, userID uuid.UUID) (*aggregation.UserTotals, error)
	UserBetSummary(ctx context.Context, userID uuid.UUID) (*aggregation.UserSummary, error)
}

type SettingsService interface {
	Current(ctx context.Context) (*model.Setting, error)
	Publish(ctx context.Context, factor decimal.Decimal, timeOfBet time.Duration) (*model.Setting, error)
}

// HandlerProvider exposes the services as HTTP handlers.
type HandlerProvider struct {
	ledger   LedgerService
	agg      AggregationService
	settings SettingsService
	validate *validator.Validate
}

func NewHandler(l LedgerService, a AggregationService, s SettingsService) *HandlerProvider {
	return &HandlerProvider{
		ledger:   l,
		agg:      a,
		settings: s,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// specific errors whose message is shown to the client as is
var publicErrors = []error{
	model.ErrBetInProgress,
	model.ErrNoCurrentSetting,
	model.ErrNoInProgressBet,
	model.ErrUserNotFound,
	model.ErrBetNotFound,
	model.ErrNoBets,
}

// writeDomainError maps the error kind to a status code.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, model.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrEmptyCollection):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, status, "internal error")
		return
	}

	for _, pe := range publicErrors {
		if errors.Is(err, pe) {
			writeError(w, status, pe.Error())
			return
		}
	}

	writeError(w, status, http.StatusText(status))
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing %s", name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	return id, nil
}

// decodeBody reads a JSON body into dst, rejecting unknown fields, then runs
// the struct validation tags.
func (h *HandlerProvider) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}

		return fmt.Errorf("invalid JSON: %w", err)
	}

	err = h.validate.Struct(dst)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field %s failed on %q", fe.Field(), fe.Tag())
		}

		return fmt.Errorf("validate body: %w", err)
	}

	return nil
}
