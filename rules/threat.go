package rules

import "github.com/nstehr/skirmish/model"

// Threat is one attacker/attack pair that can reach a cell.
type Threat struct {
	Unit   *model.Unit
	Attack model.Attack
}

// ThreatBoard records, per cell, which attacks of Side could land there
// this turn. It is a snapshot: any unit movement invalidates it.
type ThreatBoard struct {
	Side  model.Side
	width int
	cells [][]Threat
}

// At returns the threats covering sq.
func (t *ThreatBoard) At(sq model.Square) []Threat {
	if sq.X < 0 || sq.Y < 0 || sq.X >= t.width || sq.Y*t.width+sq.X >= len(t.cells) {
		return nil
	}
	return t.cells[sq.Y*t.width+sq.X]
}

// BuildThreatBoard marks every cell each unit of side could attack after
// moving to any of its legal squares.
func (b *Battle) BuildThreatBoard(side model.Side) *ThreatBoard {
	g := b.Grid
	board := &ThreatBoard{Side: side, width: g.Width, cells: make([][]Threat, g.Width*g.Height)}
	stamp := make([]int, g.Width*g.Height)
	pass := 0
	for _, u := range b.OnGrid(side) {
		squares := b.LegalSquares(u)
		for _, atk := range u.Attacks {
			pass++
			for _, from := range squares {
				for _, sq := range g.Diamond(from, atk.MaxRange) {
					if sq.Manhattan(from) < atk.MinRange {
						continue
					}
					i := sq.Y*g.Width + sq.X
					if stamp[i] == pass {
						continue
					}
					stamp[i] = pass
					board.cells[i] = append(board.cells[i], Threat{Unit: u, Attack: atk})
				}
			}
		}
	}
	return board
}

// incoming sums, over distinct attackers covering target's cell, each
// attacker's best value.
func (b *Battle) incoming(board *ThreatBoard, target *model.Unit, disregardActed bool, value func(*model.Unit, model.Attack) float64) float64 {
	sq, ok := b.Grid.Locate(target)
	if !ok {
		return 0
	}
	best := make(map[*model.Unit]float64)
	var order []*model.Unit
	for _, th := range board.At(sq) {
		u := th.Unit
		if !u.Alive() || u.Side == target.Side || (disregardActed && u.Acted) {
			continue
		}
		if _, ok := b.Grid.Locate(u); !ok {
			continue
		}
		v := value(u, th.Attack)
		prev, seen := best[u]
		if !seen {
			order = append(order, u)
		}
		if !seen || v > prev {
			best[u] = v
		}
	}
	total := 0.0
	for _, u := range order {
		total += best[u]
	}
	return total
}

// MaxIncomingDamage is the damage target takes if every threatening unit
// lands its strongest attack.
func (b *Battle) MaxIncomingDamage(board *ThreatBoard, target *model.Unit, disregardActed bool) int {
	return int(b.incoming(board, target, disregardActed, func(u *model.Unit, atk model.Attack) float64 {
		return float64(b.MaxDamage(u, atk, target))
	}))
}

// ProbableIncomingDamage is the expected damage from every threatening
// unit's best attack.
func (b *Battle) ProbableIncomingDamage(board *ThreatBoard, target *model.Unit, disregardActed bool) float64 {
	return b.incoming(board, target, disregardActed, func(u *model.Unit, atk model.Attack) float64 {
		return b.ProbableDamage(u, atk, target)
	})
}
