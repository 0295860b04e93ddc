package settings

import (
	"context"

	"github.com/fastprodman/betledger/internal/model"
)

type Settings interface {
	// Current returns the most recently created setting or model.ErrNoCurrentSetting.
	Current(ctx context.Context) (*model.Setting, error)
	// Insert stores s and fills its ID and CreatedAt.
	Insert(ctx context.Context, s *model.Setting) error
}
