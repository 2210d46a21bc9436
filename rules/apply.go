package rules

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/nstehr/skirmish/model"
)

// Outcome reports what a committed move did.
type Outcome struct {
	Move     model.Move `json:"move"`
	Roll     int        `json:"roll,omitempty"`
	Hit      bool       `json:"hit"`
	Damage   int        `json:"damage"`
	Healed   int        `json:"healed,omitempty"`
	Affected []string   `json:"affected,omitempty"`
	Defeated []string   `json:"defeated,omitempty"`
	Winner   model.Side `json:"winner,omitempty"`
}

// Effect is the deterministic result of a skill.
type Effect struct {
	Healed int
	// Affected lists the ids of units the skill changed.
	Affected []string
	// ExtraTurn is the unit given another action, if any.
	ExtraTurn *model.Unit
}

// SkillTargetAllowed reports whether skill may be used on target. Wish
// only revives allies that have acted and cannot chain onto another wish
// holder.
func SkillTargetAllowed(user *model.Unit, skill model.Targetable, target *model.Unit) bool {
	if target == nil || !target.Alive() {
		return false
	}
	if skill.Targeting().Effect == model.EffectExtraTurn {
		return target != user && target.Acted && !target.Has(skill.ID())
	}
	return true
}

// HealAmount is what user's heal skill restores.
func (b *Battle) HealAmount(user *model.Unit, skill model.Targetable) int {
	tg := skill.Targeting()
	return int(math.RoundToEven(float64(b.EffectiveStats(user).Get(tg.HealStat)) * tg.HealRatio))
}

// ApplySkill resolves skill used by user, already standing on its
// destination, against target. It does not validate the target.
func (b *Battle) ApplySkill(user *model.Unit, skill model.Targetable, target model.Square) Effect {
	var eff Effect
	tg := skill.Targeting()
	switch tg.Effect {
	case model.EffectGrant:
		var victims []model.Square
		if tg.Area {
			if at, ok := b.Grid.Locate(user); ok {
				side := user.Side
				if tg.TargetEnemy {
					side = side.Opponent()
				}
				victims = b.TargetsInRange(at, tg.Range, side)
			}
		} else {
			victims = []model.Square{target}
		}
		for _, sq := range victims {
			occ := b.Grid.Occupant(sq)
			if occ == nil || !occ.Alive() {
				continue
			}
			Grant(occ, tg.Grant())
			eff.Affected = append(eff.Affected, occ.ID)
		}
	case model.EffectHeal:
		if occ := b.Grid.Occupant(target); occ != nil {
			eff.Healed = occ.Heal(b.HealAmount(user, skill))
			eff.Affected = append(eff.Affected, occ.ID)
		}
	case model.EffectExtraTurn:
		if occ := b.Grid.Occupant(target); occ != nil {
			occ.Acted = false
			occ.Stats = occ.Stats.Plus(tg.Bonus)
			b.turnStart[occ] = target
			eff.ExtraTurn = occ
			eff.Affected = append(eff.Affected, occ.ID)
		}
	}
	if skill.Usage().PerUse() {
		skill.Usage().Tick()
		user.DropExpired()
	}
	return eff
}

// Grant hands c to u. A status u already carries is refreshed instead of
// stacked.
func Grant(u *model.Unit, c model.Capability) {
	if have, ok := u.Capability(c.ID()); ok {
		*have.Usage() = *c.Usage()
		return
	}
	u.Grant(c)
}

// Validate checks m against the current state and returns the acting unit.
func (b *Battle) Validate(m model.Move) (*model.Unit, error) {
	u, ok := b.Unit(m.Unit)
	if !ok {
		return nil, fmt.Errorf("%w: unit %q", ErrInvalidReference, m.Unit)
	}
	if u.Side != b.Active {
		return nil, fmt.Errorf("%w: %s belongs to %s, %s is active", ErrOutOfTurn, u.ID, u.Side, b.Active)
	}
	if !u.Alive() || u.Carried {
		return nil, fmt.Errorf("%w: %s cannot act", ErrIllegalMove, u.ID)
	}
	if u.Acted {
		return nil, fmt.Errorf("%w: %s has already acted", ErrIllegalMove, u.ID)
	}
	if !b.CanReach(u, m.Destination) {
		return nil, fmt.Errorf("%w: %s cannot reach %s", ErrIllegalMove, u.ID, m.Destination)
	}

	switch m.Kind {
	case model.MoveOnly:
		return u, nil
	case model.AttackAction:
		atk, ok := u.Attack(model.AttackID(m.ActionID))
		if !ok {
			return nil, fmt.Errorf("%w: %s has no attack %q", ErrInvalidReference, u.ID, m.ActionID)
		}
		if m.Target == nil || !model.ContainsSquare(b.AttackOptions(u, m.Destination, atk), *m.Target) {
			return nil, fmt.Errorf("%w: %s cannot hit %v with %s from %s", ErrIllegalMove, u.ID, m.Target, atk.ID, m.Destination)
		}
		return u, nil
	case model.SkillAction:
		skill, err := activeSkill(u, m.ActionID)
		if err != nil {
			return nil, err
		}
		if m.Target == nil || !model.ContainsSquare(b.SkillOptions(u, m.Destination, skill), *m.Target) {
			return nil, fmt.Errorf("%w: %s cannot use %s on %v from %s", ErrIllegalMove, u.ID, m.ActionID, m.Target, m.Destination)
		}
		target := b.Grid.Occupant(*m.Target)
		if *m.Target == m.Destination {
			target = u
		}
		if !SkillTargetAllowed(u, skill, target) {
			return nil, fmt.Errorf("%w: %s cannot use %s on %s", ErrIllegalMove, u.ID, m.ActionID, *m.Target)
		}
		return u, nil
	}
	return nil, fmt.Errorf("%w: unknown action kind %s", ErrIllegalMove, m.Kind)
}

func activeSkill(u *model.Unit, id string) (model.Targetable, error) {
	c, ok := u.Capability(model.CapabilityID(id))
	if !ok {
		return nil, fmt.Errorf("%w: %s has no capability %q", ErrInvalidReference, u.ID, id)
	}
	skill, ok := c.(model.Targetable)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an active capability", ErrInvalidReference, id)
	}
	return skill, nil
}

// ApplyMove validates and commits m. Attacks roll rng for the hit.
func (b *Battle) ApplyMove(m model.Move, rng *rand.Rand) (Outcome, error) {
	u, err := b.Validate(m)
	if err != nil {
		return Outcome{}, err
	}
	if start, ok := b.TurnStart(u); ok {
		m.Source = start
	}
	if err := b.Grid.Place(u, m.Destination); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	out := Outcome{Move: m}

	switch m.Kind {
	case model.AttackAction:
		atk, _ := u.Attack(model.AttackID(m.ActionID))
		target := b.Grid.Occupant(*m.Target)
		out.Roll = rng.Intn(100) + 1
		out.Hit = out.Roll <= b.Accuracy(u, atk, target)
		out.Damage = target.Damage(b.RolledDamage(u, atk, target, out.Roll))
		if !target.Alive() {
			b.kill(target)
			out.Defeated = append(out.Defeated, target.ID)
		}
	case model.SkillAction:
		skill, _ := activeSkill(u, m.ActionID)
		eff := b.ApplySkill(u, skill, *m.Target)
		out.Healed = eff.Healed
		out.Affected = eff.Affected
	}
	u.Acted = true
	if w, ok := b.Winner(); ok {
		out.Winner = w
	}
	slog.Info("move applied", "move", m.String(), "hit", out.Hit, "damage", out.Damage, "healed", out.Healed)
	return out, nil
}
