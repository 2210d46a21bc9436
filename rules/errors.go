package rules

import "errors"

var (
	// ErrIllegalMove is a caller error: the destination, target or actor
	// is not allowed this turn.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidReference means a unit, attack or capability id does not
	// resolve.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrOutOfTurn means the unit's side is not active.
	ErrOutOfTurn = errors.New("out of turn")
	// ErrNoLegalMoves means a unit cannot even stay where it is.
	ErrNoLegalMoves = errors.New("no legal moves")
)
