package rules

import (
	"math"

	"github.com/nstehr/skirmish/model"
)

// EffectiveStats applies stat-modifying capabilities and then the combat
// modifiers of the tile u stands on.
func (b *Battle) EffectiveStats(u *model.Unit) model.Stats {
	st := u.Stats
	for _, c := range u.Capabilities {
		if m, ok := c.(model.StatModifier); ok {
			st = m.ModifyStats(st)
		}
	}
	if sq, ok := b.Grid.Locate(u); ok {
		st = st.Plus(b.Grid.Tile(sq).Combat.CombatOnly())
	}
	return st
}

func (b *Battle) engagement(attacker *model.Unit, atk model.Attack, defender *model.Unit) model.Engagement {
	return model.Engagement{
		Attacker:      attacker,
		Defender:      defender,
		AttackerStats: b.EffectiveStats(attacker),
		DefenderStats: b.EffectiveStats(defender),
		Attack:        atk,
	}
}

// hooks runs v through the attacker's combat hooks, then the defender's.
func hooks(v float64, e model.Engagement, adjust func(model.CombatHook, float64, model.Engagement) float64) float64 {
	for _, holder := range []*model.Unit{e.Attacker, e.Defender} {
		e.Holder = holder
		for _, c := range holder.Capabilities {
			if h, ok := c.(model.CombatHook); ok {
				v = adjust(h, v, e)
			}
		}
	}
	return v
}

func adjustAccuracy(h model.CombatHook, v float64, e model.Engagement) float64 { return h.AdjustAccuracy(v, e) }
func adjustDamage(h model.CombatHook, v float64, e model.Engagement) float64   { return h.AdjustDamage(v, e) }

// SpeedFactor is attacker speed over defender speed, never below a third.
// A defender with no speed at all gives the attacker its full speed as
// factor.
func SpeedFactor(attackerSpeed, defenderSpeed int) float64 {
	var f float64
	if defenderSpeed == 0 {
		f = float64(max(attackerSpeed, 1))
	} else {
		f = float64(attackerSpeed) / float64(defenderSpeed)
	}
	return math.Max(f, 1.0/3)
}

// Accuracy is the hit chance in percent, in [0,100].
func (b *Battle) Accuracy(attacker *model.Unit, atk model.Attack, defender *model.Unit) int {
	e := b.engagement(attacker, atk, defender)
	v := float64(atk.BaseAccuracy-e.DefenderStats.Evasion) * SpeedFactor(e.AttackerStats.Speed, e.DefenderStats.Speed)
	v = hooks(v, e, adjustAccuracy)
	return int(math.Min(100, math.Max(0, math.RoundToEven(v))))
}

// MaxDamage is the damage dealt on a hit.
func (b *Battle) MaxDamage(attacker *model.Unit, atk model.Attack, defender *model.Unit) int {
	e := b.engagement(attacker, atk, defender)
	diff := e.AttackerStats.Get(atk.Offense) - e.DefenderStats.Get(atk.Defense)
	v := float64(max(0, diff)) * atk.Power
	v = hooks(v, e, adjustDamage)
	return int(math.Max(0, math.RoundToEven(v)))
}

// ProbableDamage is the expected damage, MaxDamage scaled by Accuracy.
func (b *Battle) ProbableDamage(attacker *model.Unit, atk model.Attack, defender *model.Unit) float64 {
	return float64(b.MaxDamage(attacker, atk, defender)) * float64(b.Accuracy(attacker, atk, defender)) / 100
}

// RolledDamage resolves one attack against a roll in [1,100]: the full
// damage lands when roll <= Accuracy.
func (b *Battle) RolledDamage(attacker *model.Unit, atk model.Attack, defender *model.Unit, roll int) int {
	if roll > b.Accuracy(attacker, atk, defender) {
		return 0
	}
	return b.MaxDamage(attacker, atk, defender)
}
