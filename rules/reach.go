package rules

import "github.com/nstehr/skirmish/model"

type frontier struct {
	sq     model.Square
	budget float64
}

// LegalSquares returns the squares u may end its move on, searching from
// where it stood at turn start with its full movement budget.
func (b *Battle) LegalSquares(u *model.Unit) []model.Square {
	start, ok := b.TurnStart(u)
	if !ok {
		return nil
	}
	return b.LegalSquaresFrom(u, start, float64(b.EffectiveStats(u).Movement))
}

// LegalSquaresFrom runs the cost-weighted search from start with the given
// budget. start need not be u's current square. The result is row-major.
func (b *Battle) LegalSquaresFrom(u *model.Unit, start model.Square, budget float64) []model.Square {
	g := b.Grid
	if !g.InBounds(start) {
		return nil
	}
	caps := u.CapabilitySet()
	passEnemies := model.PassesEnemies(u.Capabilities)
	idx := func(sq model.Square) int { return sq.Y*g.Width + sq.X }

	legal := make([]bool, g.Width*g.Height)
	best := make([]float64, g.Width*g.Height)

	free := func(sq model.Square) bool {
		occ := g.Occupant(sq)
		return occ == nil || occ == u
	}
	if free(start) && g.Tile(start).Landable.Allows(caps) {
		legal[idx(start)] = true
	}
	best[idx(start)] = budget

	queue := []frontier{{start, budget}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range model.Directions {
			n := cur.sq.Add(d)
			if !g.InBounds(n) {
				continue
			}
			tile := g.Tile(n)
			if !tile.Passable.Allows(caps) {
				continue
			}
			occ := g.Occupant(n)
			if occ != nil && occ != u && occ.Side != u.Side && !passEnemies {
				continue
			}
			left := cur.budget - tile.CostFor(caps)
			if left >= 0 && free(n) && tile.Landable.Allows(caps) {
				legal[idx(n)] = true
			}
			if left > 0 && best[idx(n)] < left {
				best[idx(n)] = left
				queue = append(queue, frontier{n, left})
			}
		}
	}

	var out []model.Square
	for i, ok := range legal {
		if ok {
			out = append(out, model.Square{X: i % g.Width, Y: i / g.Width})
		}
	}
	return out
}

// CanReach reports whether dst is among u's legal squares.
func (b *Battle) CanReach(u *model.Unit, dst model.Square) bool {
	return model.ContainsSquare(b.LegalSquares(u), dst)
}
