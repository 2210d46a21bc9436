package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nstehr/skirmish/model"
)

func physical(id string, lo, hi int, power float64, acc int) model.Attack {
	return model.Attack{ID: model.AttackID(id), Name: id, MinRange: lo, MaxRange: hi, Power: power,
		BaseAccuracy: acc, Offense: model.StatAttack, Defense: model.StatDefense}
}

func magical(id string, lo, hi int, power float64, acc int) model.Attack {
	return model.Attack{ID: model.AttackID(id), Name: id, MinRange: lo, MaxRange: hi, Power: power,
		BaseAccuracy: acc, Offense: model.StatMagic, Defense: model.StatResistance}
}

// Attacks is the attack table keyed by id.
var Attacks = map[model.AttackID]model.Attack{
	"swordstrike":    physical("swordstrike", 1, 1, 1, 100),
	"axe":            physical("axe", 1, 1, 1.5, 75),
	"knife":          physical("knife", 1, 1, 1, 100),
	"dagger":         physical("dagger", 1, 1, 1.3, 100),
	"lance":          physical("lance", 1, 1, 1.2, 100),
	"bow":            physical("bow", 1, 2, 1.5, 100),
	"longbow":        physical("longbow", 1, 3, 1, 80),
	"snipe":          physical("snipe", 1, 4, 1, 50),
	"javelin":        physical("javelin", 1, 2, 0.5, 100),
	"throwing_knife": physical("throwing_knife", 1, 2, 0.8, 95),
	"fire":           magical("fire", 1, 2, 1.5, 95),
	"thunder":        magical("thunder", 1, 4, 0.5, 90),
	"wind":           magical("wind", 1, 2, 0.4, 100),
	"stormwind":      magical("stormwind", 1, 2, 1.3, 90),
}

// Attack looks up a preset attack.
func Attack(id model.AttackID) (model.Attack, error) {
	a, ok := Attacks[id]
	if !ok {
		return model.Attack{}, fmt.Errorf("unknown attack %q", id)
	}
	return a, nil
}

// ClassPreset is the starting loadout of a class.
type ClassPreset struct {
	MaxHP        int
	Stats        model.Stats
	Attacks      []model.AttackID
	Capabilities []model.CapabilityID
}

// Classes holds the preset of every playable class.
var Classes = map[model.Class]ClassPreset{
	model.TestChar: {
		MaxHP:        25,
		Stats:        model.Stats{Attack: 15, Defense: 5, Magic: 10, Resistance: 15, Speed: 15, Evasion: 10, Movement: 6},
		Attacks:      []model.AttackID{"swordstrike", "javelin"},
		Capabilities: []model.CapabilityID{model.CapGhost, model.CapRaiseDef},
	},
	model.Knight: {
		MaxHP:        25,
		Stats:        model.Stats{Attack: 17, Defense: 12, Magic: 5, Resistance: 4, Speed: 17, Evasion: 0, Movement: 3},
		Attacks:      []model.AttackID{"swordstrike", "axe"},
		Capabilities: []model.CapabilityID{model.CapRaiseDef, model.CapBodyguard},
	},
	model.Archer: {
		MaxHP:        20,
		Stats:        model.Stats{Attack: 13, Defense: 7, Magic: 5, Resistance: 7, Speed: 20, Evasion: 5, Movement: 4},
		Attacks:      []model.AttackID{"bow", "longbow", "snipe"},
		Capabilities: []model.CapabilityID{model.CapSniper},
	},
	model.Mage: {
		MaxHP:        20,
		Stats:        model.Stats{Attack: 5, Defense: 5, Magic: 15, Resistance: 7, Speed: 20, Evasion: 5, Movement: 3},
		Attacks:      []model.AttackID{"fire", "thunder"},
		Capabilities: []model.CapabilityID{model.CapCamouflage},
	},
	model.Cleric: {
		MaxHP:        20,
		Stats:        model.Stats{Attack: 5, Defense: 2, Magic: 20, Resistance: 3, Speed: 15, Evasion: 5, Movement: 3},
		Attacks:      []model.AttackID{"wind", "knife"},
		Capabilities: []model.CapabilityID{model.CapHeal, model.CapCamouflage, model.CapRest, model.CapRaiseRng},
	},
	model.Assassin: {
		MaxHP:        17,
		Stats:        model.Stats{Attack: 15, Defense: 10, Magic: 10, Resistance: 7, Speed: 30, Evasion: 15, Movement: 4},
		Attacks:      []model.AttackID{"dagger", "throwing_knife"},
		Capabilities: []model.CapabilityID{model.CapCamouflage, model.CapSneak},
	},
	model.Valkyrie: {
		MaxHP:        18,
		Stats:        model.Stats{Attack: 12, Defense: 10, Magic: 12, Resistance: 10, Speed: 15, Evasion: 5, Movement: 5},
		Attacks:      []model.AttackID{"lance", "stormwind"},
		Capabilities: []model.CapabilityID{model.CapLevitate, model.CapRest, model.CapWish},
	},
	// The VIP is an escort objective: it cannot fight and survives one
	// lethal hit from full health.
	model.VIP: {
		MaxHP:        15,
		Stats:        model.Stats{Attack: 0, Defense: 5, Magic: 0, Resistance: 5, Speed: 10, Evasion: 5, Movement: 3},
		Capabilities: []model.CapabilityID{model.CapMiracle},
	},
}

// UnitSpec describes a unit to build. Empty Attacks or Capabilities take
// the class preset; HP 0 means full health.
type UnitSpec struct {
	ID           string
	Name         string
	Side         model.Side
	Class        model.Class
	HP           int
	Attacks      []model.AttackID
	Capabilities []model.CapabilityID
}

// NewUnit builds a unit from its class preset.
func (c *Catalog) NewUnit(spec UnitSpec) (*model.Unit, error) {
	preset, ok := Classes[spec.Class]
	if !ok {
		return nil, fmt.Errorf("unknown class %q", spec.Class)
	}
	if !spec.Side.Valid() {
		return nil, fmt.Errorf("unit %q: invalid side %q", spec.Name, spec.Side)
	}
	u := &model.Unit{
		ID:    spec.ID,
		Name:  spec.Name,
		Side:  spec.Side,
		Class: spec.Class,
		HP:    preset.MaxHP,
		MaxHP: preset.MaxHP,
		Base:  preset.Stats,
		Stats: preset.Stats,
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Name == "" {
		u.Name = string(spec.Class)
	}
	if spec.HP > 0 {
		if spec.HP > preset.MaxHP {
			return nil, fmt.Errorf("unit %q: hp %d exceeds max %d", u.Name, spec.HP, preset.MaxHP)
		}
		u.HP = spec.HP
	}

	attacks := spec.Attacks
	if len(attacks) == 0 {
		attacks = preset.Attacks
	}
	for _, id := range attacks {
		a, err := Attack(id)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", u.Name, err)
		}
		u.Attacks = append(u.Attacks, a)
	}

	caps := spec.Capabilities
	if len(caps) == 0 {
		caps = preset.Capabilities
	}
	for _, id := range caps {
		capability, err := c.Capability(id)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", u.Name, err)
		}
		u.Grant(capability)
	}
	return u, nil
}
