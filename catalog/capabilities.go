package catalog

import "github.com/nstehr/skirmish/model"

// base carries identity and the use counter shared by every capability.
type base struct {
	id    model.CapabilityID
	name  string
	usage model.Usage
}

func (b *base) ID() model.CapabilityID { return b.id }
func (b *base) Name() string           { return b.name }
func (b *base) Usage() *model.Usage    { return &b.usage }

// Movement changes where its holder may go.
type Movement struct {
	base
	profile     bool
	passEnemies bool
}

func (m *Movement) MovementProfile() bool { return m.profile }
func (m *Movement) PassesEnemies() bool   { return m.passEnemies }

// Active is chosen like an attack and resolved by the rules package.
type Active struct {
	base
	targeting model.Targeting
}

func (a *Active) Targeting() model.Targeting { return a.targeting }

// Regen heals its holder at every turn start.
type Regen struct {
	base
	gain int
}

func (r *Regen) OnTurnStart(holder *model.Unit) {
	holder.Heal(r.gain)
}

// Status is a temporary stat bonus.
type Status struct {
	base
	bonus model.Stats
}

func (s *Status) ModifyStats(st model.Stats) model.Stats { return st.Plus(s.bonus) }

func newFortify() model.Capability {
	return &Status{
		base:  base{id: model.CapFortify, name: "Fortify", usage: model.Usage{MaxUses: 1}},
		bonus: model.Stats{Defense: 3, Resistance: 3},
	}
}

func newSwift() model.Capability {
	return &Status{
		base:  base{id: model.CapSwift, name: "Swift", usage: model.Usage{MaxUses: 1}},
		bonus: model.Stats{Movement: 1},
	}
}

func builtinDefs() []Def {
	return []Def{
		{ID: model.CapLevitate, New: func() model.Capability {
			return &Movement{base: base{id: model.CapLevitate, name: "Levitate"}, profile: true}
		}},
		{ID: model.CapGhost, New: func() model.Capability {
			return &Movement{base: base{id: model.CapGhost, name: "Ghost"}, profile: true, passEnemies: true}
		}},
		{ID: model.CapSneak, New: func() model.Capability {
			return &Movement{base: base{id: model.CapSneak, name: "Sneak"}, passEnemies: true}
		}},
		{ID: model.CapRest, New: func() model.Capability {
			return &Regen{base: base{id: model.CapRest, name: "Rest"}, gain: 2}
		}},
		{ID: model.CapHeal, New: func() model.Capability {
			return &Active{
				base: base{id: model.CapHeal, name: "Heal"},
				targeting: model.Targeting{
					Range:     3,
					Effect:    model.EffectHeal,
					HealStat:  model.StatMagic,
					HealRatio: 0.5,
				},
			}
		}},
		{ID: model.CapRaiseDef, New: func() model.Capability {
			return &Active{
				base:      base{id: model.CapRaiseDef, name: "Raise defense"},
				targeting: model.Targeting{Range: 3, Area: true, Effect: model.EffectGrant, Grant: newFortify},
			}
		}},
		{ID: model.CapRaiseRng, New: func() model.Capability {
			return &Active{
				base:      base{id: model.CapRaiseRng, name: "Raise range"},
				targeting: model.Targeting{Range: 3, Area: true, Effect: model.EffectGrant, Grant: newSwift},
			}
		}},
		{ID: model.CapWish, New: func() model.Capability {
			return &Active{
				base: base{id: model.CapWish, name: "Wish"},
				targeting: model.Targeting{
					Range:  2,
					Effect: model.EffectExtraTurn,
					Bonus:  model.Stats{Attack: 1, Defense: 1, Magic: 1, Resistance: 1},
				},
			}
		}},
		{ID: model.CapFortify, New: newFortify},
		{ID: model.CapSwift, New: newSwift},
	}
}

// builtinHooks are the passive combat modifiers, as expressions over HookEnv.
var builtinHooks = []HookSpec{
	{
		ID:       model.CapCamouflage,
		Name:     "Camouflage",
		Accuracy: `HolderIsDefender && Attacker.Class == "archer" ? Value - 15 : Value`,
	},
	{
		ID:       model.CapBodyguard,
		Name:     "Bodyguard",
		Accuracy: `HolderIsAttacker && Defender.Class == "assassin" ? Value * 2 : Value`,
		Damage:   `HolderIsAttacker && Defender.Class == "assassin" ? Value * 1.5 : Value`,
	},
	{
		ID:     model.CapMiracle,
		Name:   "Miracle",
		Damage: `HolderIsDefender && Holder.HP == Holder.MaxHP && Value >= Holder.HP ? Holder.HP - 1 : Value`,
	},
	{
		ID:     model.CapSniper,
		Name:   "Sniper",
		Damage: `HolderIsAttacker && Defender.Class == "valkyrie" ? Value * 2.5 : Value`,
	},
}
