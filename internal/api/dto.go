package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/services/aggregation"
)

// --- Requests ---

type createBetRequest struct {
	BetAmount *decimal.Decimal `json:"bet_amount" validate:"required"`
}

type updateBetRequest struct {
	UserID           *uuid.UUID       `json:"user_id"`
	BetAmount        *decimal.Decimal `json:"bet_amount"`
	Factor           *decimal.Decimal `json:"factor"`
	BalanceAmount    *decimal.Decimal `json:"balance_amount"`
	AvailableAmount  *decimal.Decimal `json:"available_amount"`
	RetainedAmount   *decimal.Decimal `json:"retained_amount"`
	ActiveDurationMs *int64           `json:"active_duration_ms"`
	PaymentReference *string          `json:"payment_reference"`
	Status           *string          `json:"status" validate:"omitempty,oneof=IN_PROGRESS COMPLETED CANCELLED"`
}

func (req updateBetRequest) patch() model.BetPatch {
	p := model.BetPatch{
		UserID:           req.UserID,
		BetAmount:        req.BetAmount,
		Factor:           req.Factor,
		BalanceAmount:    req.BalanceAmount,
		AvailableAmount:  req.AvailableAmount,
		RetainedAmount:   req.RetainedAmount,
		PaymentReference: req.PaymentReference,
	}
	if req.ActiveDurationMs != nil {
		d := time.Duration(*req.ActiveDurationMs) * time.Millisecond
		p.ActiveDuration = &d
	}
	if req.Status != nil {
		s := model.BetStatus(*req.Status)
		p.Status = &s
	}

	return p
}

type publishSettingRequest struct {
	Factor    *decimal.Decimal `json:"factor" validate:"required"`
	TimeOfBet string           `json:"time_of_bet" validate:"required"`
}

// --- Responses ---

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
}

type betResponse struct {
	ID               uuid.UUID       `json:"id"`
	UserID           *uuid.UUID      `json:"user_id"`
	User             *userResponse   `json:"user,omitempty"`
	BetAmount        decimal.Decimal `json:"bet_amount"`
	Factor           decimal.Decimal `json:"factor"`
	BalanceAmount    decimal.Decimal `json:"balance_amount"`
	AvailableAmount  decimal.Decimal `json:"available_amount"`
	RetainedAmount   decimal.Decimal `json:"retained_amount"`
	ActiveDurationMs int64           `json:"active_duration_ms"`
	PaymentReference string          `json:"payment_reference"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toBetResponse(b *model.Bet) *betResponse {
	if b == nil {
		return nil
	}

	resp := &betResponse{
		ID:               b.ID,
		BetAmount:        b.BetAmount,
		Factor:           b.Factor,
		BalanceAmount:    b.BalanceAmount,
		AvailableAmount:  b.AvailableAmount,
		RetainedAmount:   b.RetainedAmount,
		ActiveDurationMs: b.ActiveDuration.Milliseconds(),
		PaymentReference: b.PaymentReference,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.UserID != uuid.Nil {
		id := b.UserID
		resp.UserID = &id
	}
	if b.User != nil {
		resp.User = &userResponse{ID: b.User.ID, FirstName: b.User.FirstName}
	}

	return resp
}

func toBetResponses(list []model.Bet) []*betResponse {
	out := make([]*betResponse, 0, len(list))
	for i := range list {
		out = append(out, toBetResponse(&list[i]))
	}

	return out
}

type paginationResponse struct {
	Index int `json:"index"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

type listingResponse struct {
	Bets       []*betResponse      `json:"bets"`
	Pagination *paginationResponse `json:"pagination,omitempty"`
}

func toListingResponse(l *aggregation.Listing) listingResponse {
	resp := listingResponse{Bets: toBetResponses(l.Bets)}
	if l.Pagination != nil {
		resp.Pagination = &paginationResponse{
			Index: l.Pagination.Index,
			Size:  l.Pagination.Size,
			Total: l.Pagination.Total,
		}
	}

	return resp
}

type totalsResponse struct {
	Available decimal.Decimal `json:"available"`
	Retained  decimal.Decimal `json:"retained"`
	Balance   decimal.Decimal `json:"balance"`
	Bet       decimal.Decimal `json:"bet"`
}

func toTotals(t aggregation.Totals) totalsResponse {
	return totalsResponse{Available: t.Available, Retained: t.Retained, Balance: t.Balance, Bet: t.Bet}
}

type globalTotalsResponse struct {
	totalsResponse
	LastBetAmount decimal.Decimal `json:"last_bet_amount"`
}

type userTotalsResponse struct {
	totalsResponse
	Gains decimal.Decimal `json:"gains"`
}

func toUserTotals(t aggregation.UserTotals) userTotalsResponse {
	return userTotalsResponse{totalsResponse: toTotals(t.Totals), Gains: t.Gains}
}

type summaryResponse struct {
	UserID    uuid.UUID          `json:"user_id"`
	FirstName string             `json:"first_name"`
	Totals    userTotalsResponse `json:"totals"`
	LastBet   *betResponse       `json:"last_bet"`
	BetCount  int                `json:"bet_count"`
}

type settingResponse struct {
	ID          int64           `json:"id"`
	Factor      decimal.Decimal `json:"factor"`
	TimeOfBet   string          `json:"time_of_bet"`
	TimeOfBetMs int64           `json:"time_of_bet_ms"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toSettingResponse(s *model.Setting) settingResponse {
	return settingResponse{
		ID:          s.ID,
		Factor:      s.Factor,
		TimeOfBet:   s.TimeOfBet.String(),
		TimeOfBetMs: s.TimeOfBet.Milliseconds(),
		CreatedAt:   s.CreatedAt,
	}
}
