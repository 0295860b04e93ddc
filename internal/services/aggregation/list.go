package aggregation

import (
	"context"
	"fmt"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/bets"
)

// Status filters understood by ListBets. Any other value, including the empty
// string, lists every bet.
const (
	FilterAll    = "ALL"
	FilterInLine = "IN_LINE"
)

const defaultPageSize = 25

type Pagination struct {
	Index int
	Size  int
	Total int
}

type Listing struct {
	Bets       []model.Bet
	Pagination *Pagination
}

// ListBets lists bets newest first.
//
//   - FilterAll returns one page with owners resolved and a Pagination block.
//     pageIndex is 1-based (values below 1 mean the first page); pageSize 0
//     means the default page size and a negative pageSize is rejected.
//   - FilterInLine returns every in-progress bet, ignoring paging.
//   - anything else returns every bet, ignoring paging.
func (s *AggregationService) ListBets(ctx context.Context, pageIndex, pageSize int, filter string) (*Listing, error) {
	switch filter {
	case FilterAll:
		return s.listPage(ctx, pageIndex, pageSize)
	case FilterInLine:
		list, err := s.bets.List(ctx, bets.Query{Status: model.BetInProgress})
		if err != nil {
			return nil, fmt.Errorf("list in-progress bets: %w", err)
		}

		return &Listing{Bets: list}, nil
	default:
		list, err := s.bets.List(ctx, bets.Query{})
		if err != nil {
			return nil, fmt.Errorf("list bets: %w", err)
		}

		return &Listing{Bets: list}, nil
	}
}

func (s *AggregationService) listPage(ctx context.Context, pageIndex, pageSize int) (*Listing, error) {
	if pageSize < 0 {
		return nil, fmt.Errorf("%w: pageSize must not be negative", model.ErrValidation)
	}

	skip := pageSize * (max(pageIndex, 1) - 1)

	limit := pageSize
	if limit == 0 {
		limit = defaultPageSize
	}

	page, err := s.bets.List(ctx, bets.Query{
		Offset:   uint64(skip),
		Limit:    uint64(limit),
		WithUser: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list bets page: %w", err)
	}

	total, err := s.bets.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bets: %w", err)
	}

	return &Listing{
		Bets: page,
		Pagination: &Pagination{
			Index: pageIndex,
			Size:  len(page),
			Total: total,
		},
	}, nil
}

func (s *AggregationService) TotalBetCount(ctx context.Context) (int, error) {
	n, err := s.bets.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count bets: %w", err)
	}

	return n, nil
}
