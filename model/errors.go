package model

import "errors"

var (
	ErrInvalidTile = errors.New("invalid tile")
	ErrOutOfBounds = errors.New("square out of bounds")
	ErrOccupied    = errors.New("square occupied")
	ErrNotOnGrid   = errors.New("unit not on grid")
)
