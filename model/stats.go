package model

// Stat names a unit statistic. The string values double as expression
// identifiers and scenario keys.
type Stat string

const (
	StatAttack     Stat = "att"
	StatDefense    Stat = "def"
	StatMagic      Stat = "mag"
	StatResistance Stat = "res"
	StatSpeed      Stat = "spd"
	StatEvasion    Stat = "eva"
	StatMovement   Stat = "rng"
)

// CombatStats are the six stats a tile may modify.
var CombatStats = []Stat{StatAttack, StatDefense, StatMagic, StatResistance, StatSpeed, StatEvasion}

// Stats is a unit's stat block. Movement is the movement budget per turn.
type Stats struct {
	Attack     int `json:"att" yaml:"att"`
	Defense    int `json:"def" yaml:"def"`
	Magic      int `json:"mag" yaml:"mag"`
	Resistance int `json:"res" yaml:"res"`
	Speed      int `json:"spd" yaml:"spd"`
	Evasion    int `json:"eva" yaml:"eva"`
	Movement   int `json:"rng" yaml:"rng"`
}

// Get returns the value of stat s. Unknown stats read as zero.
func (s Stats) Get(stat Stat) int {
	switch stat {
	case StatAttack:
		return s.Attack
	case StatDefense:
		return s.Defense
	case StatMagic:
		return s.Magic
	case StatResistance:
		return s.Resistance
	case StatSpeed:
		return s.Speed
	case StatEvasion:
		return s.Evasion
	case StatMovement:
		return s.Movement
	}
	return 0
}

// Plus returns the field-wise sum of s and d.
func (s Stats) Plus(d Stats) Stats {
	return Stats{
		Attack:     s.Attack + d.Attack,
		Defense:    s.Defense + d.Defense,
		Magic:      s.Magic + d.Magic,
		Resistance: s.Resistance + d.Resistance,
		Speed:      s.Speed + d.Speed,
		Evasion:    s.Evasion + d.Evasion,
		Movement:   s.Movement + d.Movement,
	}
}

// CombatOnly drops the movement component.
func (s Stats) CombatOnly() Stats {
	s.Movement = 0
	return s
}

// Mean averages all seven stats.
func (s Stats) Mean() float64 {
	sum := s.Attack + s.Defense + s.Magic + s.Resistance + s.Speed + s.Evasion + s.Movement
	return float64(sum) / 7
}

// ValidStat reports whether stat names one of the combat stats.
func ValidStat(stat Stat) bool {
	for _, s := range CombatStats {
		if s == stat {
			return true
		}
	}
	return false
}
