package model

import (
	"fmt"
	"strings"
)

// Grid is the battlefield. Occupancy recorded here is the only source of
// unit positions.
type Grid struct {
	Width  int
	Height int
	tiles  []Tile  // row-major: tiles[y*Width + x]
	cells  []*Unit // occupant per cell
	where  map[*Unit]Square
}

// NewGrid builds a grid from row-major tiles.
func NewGrid(width, height int, tiles []Tile) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid size %dx%d must be positive", width, height)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("grid %dx%d needs %d tiles, got %d", width, height, width*height, len(tiles))
	}
	for i, t := range tiles {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("tile (%d,%d): %w", i%width, i/width, err)
		}
	}
	return &Grid{
		Width:  width,
		Height: height,
		tiles:  tiles,
		cells:  make([]*Unit, width*height),
		where:  make(map[*Unit]Square),
	}, nil
}

// ParseGrid builds a grid from glyph rows.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("map has no rows")
	}
	width := len([]rune(rows[0]))
	tiles := make([]Tile, 0, width*len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("map row %d has width %d, want %d", y, len(runes), width)
		}
		for x, r := range runes {
			t, ok := TerrainFromGlyph(r)
			if !ok {
				return nil, fmt.Errorf("map row %d col %d: unknown glyph %q", y, x, r)
			}
			tiles = append(tiles, NewTile(t))
		}
	}
	return NewGrid(width, len(rows), tiles)
}

// InBounds reports whether sq is on the grid.
func (g *Grid) InBounds(sq Square) bool {
	return sq.X >= 0 && sq.X < g.Width && sq.Y >= 0 && sq.Y < g.Height
}

func (g *Grid) index(sq Square) int { return sq.Y*g.Width + sq.X }

// Tile returns the tile at sq. sq must be in bounds.
func (g *Grid) Tile(sq Square) Tile { return g.tiles[g.index(sq)] }

// SetTile replaces the tile at sq. Callers must rebuild distance maps.
func (g *Grid) SetTile(sq Square, t Tile) error {
	if !g.InBounds(sq) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, sq)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	g.tiles[g.index(sq)] = t
	return nil
}

// Occupant returns the unit at sq, or nil.
func (g *Grid) Occupant(sq Square) *Unit {
	if !g.InBounds(sq) {
		return nil
	}
	return g.cells[g.index(sq)]
}

// Locate returns the square u occupies.
func (g *Grid) Locate(u *Unit) (Square, bool) {
	sq, ok := g.where[u]
	return sq, ok
}

// Place puts u on an empty square. A unit already on the grid is moved.
func (g *Grid) Place(u *Unit, sq Square) error {
	if !g.InBounds(sq) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, sq)
	}
	if occ := g.cells[g.index(sq)]; occ != nil && occ != u {
		return fmt.Errorf("%w: %s holds %s", ErrOccupied, sq, occ.ID)
	}
	g.Remove(u)
	g.cells[g.index(sq)] = u
	g.where[u] = sq
	return nil
}

// Remove takes u off the grid. It is a no-op for units not on the grid.
func (g *Grid) Remove(u *Unit) {
	sq, ok := g.where[u]
	if !ok {
		return
	}
	g.cells[g.index(sq)] = nil
	delete(g.where, u)
}

// Occupancy copies the current unit placement.
func (g *Grid) Occupancy() map[*Unit]Square {
	out := make(map[*Unit]Square, len(g.where))
	for u, sq := range g.where {
		out[u] = sq
	}
	return out
}

// Reset replaces all placement with occ.
func (g *Grid) Reset(occ map[*Unit]Square) {
	clear(g.cells)
	clear(g.where)
	for u, sq := range occ {
		g.cells[g.index(sq)] = u
		g.where[u] = sq
	}
}

// Diamond returns all in-bounds squares within Manhattan distance d of c,
// in row-major order.
func (g *Grid) Diamond(c Square, d int) []Square {
	var out []Square
	for y := c.Y - d; y <= c.Y+d; y++ {
		span := d - abs(y-c.Y)
		for x := c.X - span; x <= c.X+span; x++ {
			sq := Square{X: x, Y: y}
			if g.InBounds(sq) {
				out = append(out, sq)
			}
		}
	}
	return out
}

// Squares lists every square in row-major order.
func (g *Grid) Squares() []Square {
	out := make([]Square, 0, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			out = append(out, Square{X: x, Y: y})
		}
	}
	return out
}

// Render draws the map with occupants as the first letter of their class,
// upper case for blue and lower case for red.
func (g *Grid) Render() string {
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			sq := Square{X: x, Y: y}
			if u := g.Occupant(sq); u != nil {
				r := '?'
				if u.Class != "" {
					r = rune(string(u.Class)[0])
				}
				if u.Side == Blue {
					r = []rune(strings.ToUpper(string(r)))[0]
				}
				b.WriteRune(r)
				continue
			}
			b.WriteRune(g.Tile(sq).Terrain.Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
