package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/repos/settings"
)

var _ settings.Settings = (*cachedSettings)(nil)

const currentKey = "betledger:settings:current"

// storeNewer writes ARGV[1] unless the cached entry carries a higher setting id.
// A reader that loaded an old row before an Insert can therefore never
// overwrite the entry that Insert wrote.
var storeNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
  local ok, doc = pcall(cjson.decode, cur)
  if ok and type(doc) == 'table' and tonumber(doc.id) and tonumber(doc.id) > tonumber(ARGV[2]) then
    return 0
  end
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// cachedSettings serves Current from redis and falls through to next on a miss.
// Insert writes the new setting through, and entries only move forward by id.
// Redis failures are logged and never surface to the caller.
type cachedSettings struct {
	next settings.Settings
	rdb  redis.UniversalClient
	ttl  time.Duration
}

func New(next settings.Settings, rdb redis.UniversalClient, ttl time.Duration) *cachedSettings {
	return &cachedSettings{next: next, rdb: rdb, ttl: ttl}
}

type cachedSetting struct {
	ID          int64           `json:"id"`
	Factor      decimal.Decimal `json:"factor"`
	TimeOfBetMs int64           `json:"time_of_bet_ms"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (c *cachedSettings) Current(ctx context.Context) (*model.Setting, error) {
	raw, err := c.rdb.Get(ctx, currentKey).Bytes()
	switch {
	case err == nil:
		var cs cachedSetting
		if uerr := json.Unmarshal(raw, &cs); uerr == nil {
			return &model.Setting{
				ID:        cs.ID,
				Factor:    cs.Factor,
				TimeOfBet: time.Duration(cs.TimeOfBetMs) * time.Millisecond,
				CreatedAt: cs.CreatedAt,
			}, nil
		}
		slog.Warn("settings cache: corrupt entry, reloading", "key", currentKey)
	case errors.Is(err, redis.Nil):
	default:
		slog.Warn("settings cache: get failed", "err", err)
	}

	s, err := c.next.Current(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, s)

	return s, nil
}

func (c *cachedSettings) Insert(ctx context.Context, s *model.Setting) error {
	err := c.next.Insert(ctx, s)
	if err != nil {
		return err
	}

	c.store(ctx, s)

	return nil
}

func (c *cachedSettings) store(ctx context.Context, s *model.Setting) {
	b, err := json.Marshal(cachedSetting{
		ID:          s.ID,
		Factor:      s.Factor,
		TimeOfBetMs: s.TimeOfBet.Milliseconds(),
		CreatedAt:   s.CreatedAt,
	})
	if err != nil {
		slog.Warn("settings cache: marshal failed", "err", fmt.Errorf("marshal setting: %w", err))
		return
	}

	err = storeNewer.Run(ctx, c.rdb, []string{currentKey}, b, s.ID, c.ttl.Milliseconds()).Err()
	if err != nil {
		slog.Warn("settings cache: set failed", "err", err, "setting_id", s.ID)
	}
}
