package aggregation

import (
	"github.com/fastprodman/betledger/internal/repos/bets"
	"github.com/fastprodman/betledger/internal/repos/users"
)

// AggregationService answers read-only questions over the whole bet set.
// Every aggregate loads the matching bets into memory.
type AggregationService struct {
	bets  bets.Bets
	users users.Users
}

func New(b bets.Bets, u users.Users) *AggregationService {
	return &AggregationService{bets: b, users: u}
}
