package model

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors below wrap one of them, so callers can match
// either the kind or the specific condition with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrEmptyCollection = errors.New("empty collection")
)

var (
	ErrNoCurrentSetting = fmt.Errorf("%w: no current setting", ErrNotFound)
	ErrNoInProgressBet  = fmt.Errorf("%w: no in-progress bet", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrBetNotFound      = fmt.Errorf("%w: bet", ErrNotFound)
	ErrBetInProgress    = fmt.Errorf("%w: user already has an in-progress bet", ErrConflict)
	ErrNoBets           = fmt.Errorf("%w: no bets", ErrEmptyCollection)
)
