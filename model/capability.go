package model

// CapabilityID identifies a capability (skill). Tiles, profiles and moves
// refer to capabilities by id.
type CapabilityID string

// Built-in capability ids.
const (
	CapLevitate   CapabilityID = "levitate"
	CapGhost      CapabilityID = "ghost"
	CapSneak      CapabilityID = "sneak"
	CapCamouflage CapabilityID = "camouflage"
	CapBodyguard  CapabilityID = "bodyguard"
	CapMiracle    CapabilityID = "miracle"
	CapSniper     CapabilityID = "sniper"
	CapRest       CapabilityID = "rest"
	CapHeal       CapabilityID = "heal"
	CapRaiseDef   CapabilityID = "raise_def"
	CapRaiseRng   CapabilityID = "raise_rng"
	CapWish       CapabilityID = "wish"
	CapFortify    CapabilityID = "fortify"
	CapSwift      CapabilityID = "swift"
)

// Usage tracks expiry. MaxUses 0 is permanent, a positive value expires
// after that many turns carried, a negative value after that many
// activations.
type Usage struct {
	MaxUses int `json:"maxUses"`
	Count   int `json:"count"`
}

// Tick advances the counter. Permanent capabilities never count.
func (u *Usage) Tick() {
	if u.MaxUses == 0 {
		return
	}
	u.Count++
}

func (u Usage) Expired() bool   { return u.MaxUses != 0 && u.Count >= abs(u.MaxUses) }
func (u Usage) PerTurn() bool   { return u.MaxUses > 0 }
func (u Usage) PerUse() bool    { return u.MaxUses < 0 }
func (u Usage) Permanent() bool { return u.MaxUses == 0 }

// Capability is the common surface of every skill. Roles are expressed by
// also implementing one or more of the trait interfaces below.
type Capability interface {
	ID() CapabilityID
	Name() string
	Usage() *Usage
}

// MovementModifier alters how a holder moves.
type MovementModifier interface {
	Capability
	// MovementProfile reports whether the capability keys its own
	// distance-map profile.
	MovementProfile() bool
	PassesEnemies() bool
}

// Engagement is the context handed to combat hooks.
type Engagement struct {
	Holder        *Unit
	Attacker      *Unit
	Defender      *Unit
	AttackerStats Stats
	DefenderStats Stats
	Attack        Attack
}

// CombatHook adjusts accuracy and damage while either participant holds it.
type CombatHook interface {
	Capability
	AdjustAccuracy(value float64, e Engagement) float64
	AdjustDamage(value float64, e Engagement) float64
}

// EffectKind is what an active capability does to its target.
type EffectKind byte

const (
	EffectHeal EffectKind = iota
	EffectGrant
	EffectExtraTurn
)

func (k EffectKind) String() string {
	switch k {
	case EffectHeal:
		return "heal"
	case EffectGrant:
		return "grant"
	case EffectExtraTurn:
		return "extra-turn"
	}
	return "unknown"
}

// Targeting describes an active capability chosen like an attack.
type Targeting struct {
	Range       int
	TargetEnemy bool
	// Area effects hit every qualifying unit within Range of the user.
	Area   bool
	Effect EffectKind
	// HealStat and HealRatio give the heal amount: round(stat * ratio).
	HealStat  Stat
	HealRatio float64
	// Grant builds the status handed to each affected unit.
	Grant func() Capability
	// Bonus is added to an extra-turn beneficiary's stats.
	Bonus Stats
}

// Targetable capabilities are activated with a target square.
type Targetable interface {
	Capability
	Targeting() Targeting
}

// TurnStartTrigger fires when the holder's side begins a turn.
type TurnStartTrigger interface {
	Capability
	OnTurnStart(holder *Unit)
}

// StatModifier contributes to the holder's effective stats.
type StatModifier interface {
	Capability
	ModifyStats(s Stats) Stats
}

// CapabilitySet is the list of ids a unit holds.
type CapabilitySet []CapabilityID

func (c CapabilitySet) Has(id CapabilityID) bool {
	for _, have := range c {
		if have == id {
			return true
		}
	}
	return false
}

// PassesEnemies reports whether any held capability lets the holder
// move through enemy-occupied cells.
func PassesEnemies(caps []Capability) bool {
	for _, c := range caps {
		if m, ok := c.(MovementModifier); ok && m.PassesEnemies() {
			return true
		}
	}
	return false
}
