package model

// Side is one of the two players.
type Side string

const (
	Blue Side = "blue"
	Red  Side = "red"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Blue {
		return Red
	}
	return Blue
}

func (s Side) Valid() bool { return s == Blue || s == Red }

// Class is a unit archetype; planner weight tables are keyed by it.
type Class string

const (
	TestChar Class = "testchar"
	Knight   Class = "knight"
	Archer   Class = "archer"
	Mage     Class = "mage"
	Cleric   Class = "cleric"
	Assassin Class = "assassin"
	Valkyrie Class = "valkyrie"
	VIP      Class = "vip"
)

// AttackID identifies an attack on a unit.
type AttackID string

// Attack is one entry in a unit's attack list.
type Attack struct {
	ID           AttackID `json:"id"`
	Name         string   `json:"name"`
	MinRange     int      `json:"minRange"`
	MaxRange     int      `json:"maxRange"`
	Power        float64  `json:"power"`
	BaseAccuracy int      `json:"accuracy"`
	Offense      Stat     `json:"offense"`
	Defense      Stat     `json:"defense"`
}

// Unit is a combatant. Its position lives in the grid, not here.
type Unit struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Side  Side   `json:"side"`
	Class Class  `json:"class"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"maxHp"`
	// Base is restored at every turn start; Stats carries in-turn changes.
	Base  Stats `json:"base"`
	Stats Stats `json:"stats"`
	// Acted is the ready flag: set once the unit has taken its action
	// this turn.
	Acted bool `json:"acted"`
	// Carried units are off the grid and invisible to targeting.
	Carried  bool   `json:"carried"`
	Carrying string `json:"carrying,omitempty"`

	Attacks      []Attack     `json:"attacks"`
	Capabilities []Capability `json:"-"`
}

func (u *Unit) Alive() bool { return u.HP > 0 }

// Attack looks up an attack by id.
func (u *Unit) Attack(id AttackID) (Attack, bool) {
	for _, a := range u.Attacks {
		if a.ID == id {
			return a, true
		}
	}
	return Attack{}, false
}

// Capability looks up a held capability by id.
func (u *Unit) Capability(id CapabilityID) (Capability, bool) {
	for _, c := range u.Capabilities {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Has reports whether the unit holds capability id.
func (u *Unit) Has(id CapabilityID) bool {
	_, ok := u.Capability(id)
	return ok
}

// CapabilitySet lists the ids of held capabilities.
func (u *Unit) CapabilitySet() CapabilitySet {
	set := make(CapabilitySet, len(u.Capabilities))
	for i, c := range u.Capabilities {
		set[i] = c.ID()
	}
	return set
}

// Grant appends a capability.
func (u *Unit) Grant(c Capability) {
	u.Capabilities = append(u.Capabilities, c)
}

// DropExpired removes capabilities whose usage has run out.
func (u *Unit) DropExpired() {
	kept := u.Capabilities[:0:0]
	for _, c := range u.Capabilities {
		if !c.Usage().Expired() {
			kept = append(kept, c)
		}
	}
	u.Capabilities = kept
}

// Heal adds amount HP, capped at MaxHP, and returns what was applied.
func (u *Unit) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	if u.HP+amount > u.MaxHP {
		amount = u.MaxHP - u.HP
	}
	u.HP += amount
	return amount
}

// Damage removes amount HP, floored at zero, and returns what was applied.
func (u *Unit) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > u.HP {
		amount = u.HP
	}
	u.HP -= amount
	return amount
}

// HPFraction is HP / MaxHP, or 0 for a unit without max HP.
func (u *Unit) HPFraction() float64 {
	if u.MaxHP <= 0 {
		return 0
	}
	return float64(u.HP) / float64(u.MaxHP)
}
