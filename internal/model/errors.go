package model

import (
	"errors"
	"fmt"
)

// Rejection reasons. A rejected request leaves the game unchanged.
var (
	ErrInvalidCoordinate      = errors.New("invalid coordinate")
	ErrWrongSide              = errors.New("piece does not belong to the side to move")
	ErrEmptyOrigin            = errors.New("no piece at from square")
	ErrIllegalMove            = errors.New("illegal move")
	ErrPromotionPending       = errors.New("promotion pending")
	ErrNoPromotionPending     = errors.New("no promotion pending")
	ErrInvalidPromotionTarget = errors.New("invalid promotion target")
	ErrGameAlreadyEnded       = errors.New("game already ended")
)

// MoveError is a rejected move attempt. It unwraps to one of the sentinel
// errors above.
type MoveError struct {
	From Square
	To   Square
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s-%s: %v", e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
