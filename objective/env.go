package objective

import (
	"strings"

	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/rules"
)

// Env wraps the battle and exposes helper methods callable from expr
// expressions. Sides, classes and terrains are named by their lowercase
// strings.
type Env struct {
	Turn   int
	Active string
	Memory map[string]any
	battle *rules.Battle
}

func newEnv(b *rules.Battle, memory map[string]any) Env {
	return Env{Turn: b.Turn, Active: string(b.Active), Memory: memory, battle: b}
}

func (e Env) unit(id string) *model.Unit {
	u, _ := e.battle.Unit(id)
	return u
}

// Alive reports whether unit id has hit points left.
func (e Env) Alive(id string) bool {
	u := e.unit(id)
	return u != nil && u.Alive()
}

func (e Env) HP(id string) int {
	if u := e.unit(id); u != nil {
		return u.HP
	}
	return 0
}

// Living counts side's units with hit points left, carried ones included.
func (e Env) Living(side string) int {
	return e.battle.Living(model.Side(side))
}

// Count counts side's living units of class.
func (e Env) Count(side, class string) int {
	n := 0
	for _, u := range e.battle.Units {
		if string(u.Side) == side && strings.EqualFold(string(u.Class), class) && u.Alive() {
			n++
		}
	}
	return n
}

// Fielded counts side's units of class, dead ones included.
func (e Env) Fielded(side, class string) int {
	n := 0
	for _, u := range e.battle.Units {
		if string(u.Side) == side && strings.EqualFold(string(u.Class), class) {
			n++
		}
	}
	return n
}

// OnTerrain reports whether unit id stands on terrain.
func (e Env) OnTerrain(id, terrain string) bool {
	u := e.unit(id)
	if u == nil {
		return false
	}
	sq, ok := e.battle.Position(u)
	return ok && strings.EqualFold(e.battle.Grid.Tile(sq).Terrain.String(), terrain)
}

// OnGoal reports whether any unit of side holds a goal tile.
func (e Env) OnGoal(side string) bool {
	for _, u := range e.battle.OnGrid(model.Side(side)) {
		if e.onGoal(u) {
			return true
		}
	}
	return false
}

// EscortOnGoal reports whether a VIP of side holds a goal tile, on foot
// or carried by a unit standing there.
func (e Env) EscortOnGoal(side string) bool {
	for _, u := range e.battle.OnGrid(model.Side(side)) {
		if !e.onGoal(u) {
			continue
		}
		if u.Class == model.VIP {
			return true
		}
		if u.Carrying != "" {
			if p := e.unit(u.Carrying); p != nil && p.Class == model.VIP && p.Alive() {
				return true
			}
		}
	}
	return false
}

func (e Env) onGoal(u *model.Unit) bool {
	sq, ok := e.battle.Position(u)
	return ok && e.battle.Grid.Tile(sq).Terrain == model.Goal
}

// Distance is the movement distance between two units, or -1.
func (e Env) Distance(a, b string) int {
	ua, ub := e.unit(a), e.unit(b)
	if ua == nil || ub == nil || !ua.Alive() || !ub.Alive() {
		return rules.Unreachable
	}
	return e.battle.DistanceBetweenUnits(ua, ub)
}

// Fired reports whether the once-only rule name has already fired.
func (e Env) Fired(name string) bool {
	done, _ := e.Memory[firedKey(name)].(bool)
	return done
}

func firedKey(name string) string { return "fired:" + name }
