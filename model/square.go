package model

import "fmt"

// Square addresses a grid cell. X is the column, Y the row.
type Square struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Directions are the four orthogonal neighbour offsets, in search order.
var Directions = [4]Square{{X: -1}, {Y: 1}, {X: 1}, {Y: -1}}

func (s Square) Add(d Square) Square { return Square{X: s.X + d.X, Y: s.Y + d.Y} }

// Manhattan returns the taxicab distance between s and o.
func (s Square) Manhattan(o Square) int {
	return abs(s.X-o.X) + abs(s.Y-o.Y)
}

func (s Square) String() string { return fmt.Sprintf("(%d,%d)", s.X, s.Y) }

// ContainsSquare reports whether sq is in squares.
func ContainsSquare(squares []Square, sq Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
