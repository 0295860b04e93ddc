package events

const (
	TypeBetCreated = "bet.created"
	TypeBetUpdated = "bet.updated"
)

// BetEvent is published on the bets topic, keyed by bet id, after a bet is
// created or updated. Money fields are decimal strings.
type BetEvent struct {
	Type          string `json:"type"`
	BetID         string `json:"bet_id"`
	UserID        string `json:"user_id,omitempty"`
	Status        string `json:"status"`
	BetAmount     string `json:"bet_amount"`
	BalanceAmount string `json:"balance_amount"`
	Factor        string `json:"factor"`
	TsUnixMs      int64  `json:"ts_unix_ms"`
}
