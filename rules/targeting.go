package rules

import "github.com/nstehr/skirmish/model"

// TargetsInRange lists squares within Manhattan distance rng of from that
// hold a unit of side, row-major.
func (b *Battle) TargetsInRange(from model.Square, rng int, side model.Side) []model.Square {
	var out []model.Square
	for _, sq := range b.Grid.Diamond(from, rng) {
		if occ := b.Grid.Occupant(sq); occ != nil && occ.Side == side {
			out = append(out, sq)
		}
	}
	return out
}

// targetsAround is TargetsInRange with user moved to from: its current
// square reads as empty and from reads as occupied by it.
func (b *Battle) targetsAround(user *model.Unit, from model.Square, lo, hi int, side model.Side) []model.Square {
	var out []model.Square
	for _, sq := range b.Grid.Diamond(from, hi) {
		if sq.Manhattan(from) < lo {
			continue
		}
		occ := b.Grid.Occupant(sq)
		if occ == user {
			occ = nil
		}
		if sq == from {
			occ = user
		}
		if occ != nil && occ.Side == side {
			out = append(out, sq)
		}
	}
	return out
}

// AttackOptions lists enemy squares atk could hit if u stood at sq.
func (b *Battle) AttackOptions(u *model.Unit, sq model.Square, atk model.Attack) []model.Square {
	return b.targetsAround(u, sq, atk.MinRange, atk.MaxRange, u.Side.Opponent())
}

// SkillOptions lists squares an active capability could target if u stood
// at sq. Ally-directed skills may target u itself.
func (b *Battle) SkillOptions(u *model.Unit, sq model.Square, skill model.Targetable) []model.Square {
	tg := skill.Targeting()
	side := u.Side
	if tg.TargetEnemy {
		side = side.Opponent()
	}
	return b.targetsAround(u, sq, 0, tg.Range, side)
}

// Actives returns the active-targetable capabilities u holds, in order.
func Actives(u *model.Unit) []model.Targetable {
	var out []model.Targetable
	for _, c := range u.Capabilities {
		if t, ok := c.(model.Targetable); ok {
			out = append(out, t)
		}
	}
	return out
}
